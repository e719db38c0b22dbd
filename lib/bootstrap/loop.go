package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/glbootstrap/lib/metrics"
	"github.com/fosdem/glbootstrap/lib/session"
	"github.com/fosdem/glbootstrap/lib/stats"
	"github.com/fosdem/glbootstrap/lib/utils"
)

// Window is what the render loop needs from the windowing library.
type Window interface {
	PollEvents()
	ShouldClose() bool
	SwapBuffers()
}

// Loop polls, draws and presents until the session is told to quit.
type Loop struct {
	Window   Window
	Session  *session.Session
	Stats    *stats.Stats
	Programs *ProgramBuilder
	Clear    func()
}

func (l *Loop) Run() {
	var deltaTimer utils.DeltaTimer
	for !l.Session.ShutdownRequested() {
		l.Window.PollEvents()
		if l.Window.ShouldClose() {
			l.Session.RequestShutdown("window closed")
			break
		}

		if l.Session.TakeReload() {
			l.reload()
		}

		l.Clear()
		l.Window.SwapBuffers()

		dt := deltaTimer.Next()
		metrics.FramesPresented.Inc()
		metrics.FrameTime.Observe(dt.Seconds())
		l.Stats.Update(dt)
	}
}

func (l *Loop) reload() {
	err := l.Programs.Build()
	if err != nil {
		metrics.ProgramReloads.WithLabelValues("failure").Inc()
		slog.Error(fmt.Sprintf("Reload failed, keeping the previous program: %s", err), slog.String("module", "shaders"))
	} else {
		metrics.ProgramReloads.WithLabelValues("success").Inc()
		l.Stats.ProgramReloaded()
	}
	l.Session.ProgramReloaded(err)
}
