package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fosdem/glbootstrap/lib/api"
	"github.com/fosdem/glbootstrap/lib/config"
	"github.com/fosdem/glbootstrap/lib/kbdctl"
	"github.com/fosdem/glbootstrap/lib/rendering"
	"github.com/fosdem/glbootstrap/lib/session"
	"github.com/fosdem/glbootstrap/lib/sink/windowsink"
	"github.com/fosdem/glbootstrap/lib/stats"
	"github.com/fosdem/glbootstrap/lib/utils"
	"github.com/fosdem/glbootstrap/lib/watcher"
)

// MakeWindowAndRun opens the window, builds the shader program and runs
// the render loop until the user quits. It must be called from the
// thread that is locked for OpenGL.
func MakeWindowAndRun(cfg *config.Config) error {
	sess := session.New()
	st := stats.New()

	window := windowsink.New(cfg.Window)
	err := window.Start()
	if err != nil {
		return err
	}
	defer window.Destroy()

	err = rendering.Init(window.ProcAddress)
	if err != nil {
		return err
	}
	st.SetGLVersion(rendering.Version())

	programs, err := NewProgramBuilder(rendering.NewDriver(), cfg)
	if err != nil {
		return err
	}
	err = programs.Build()
	if err != nil {
		return fmt.Errorf("could not init GL program: %w", err)
	}
	defer programs.Delete()

	rendering.SetClearColour(utils.ColourVec(utils.ColourParse(cfg.ClearColour)))

	if paths := cfg.WatchedPaths(); len(paths) > 0 {
		w, err := watcher.New(paths, func(path string) {
			sess.RequestReload(path + " changed")
		})
		if err != nil {
			slog.Warn(fmt.Sprintf("Shaders will not be reloaded: %s", err), slog.String("module", "watcher"))
		} else {
			defer closeWatcher(w)
		}
	}

	theApi, err := api.ServeInBackground(cfg, sess, st)
	if err != nil {
		return err
	}
	if theApi != nil {
		defer shutdownApi(theApi)
	}

	kbdctl.SetupShortcutKeys(sess, window)

	loop := &Loop{
		Window:   window,
		Session:  sess,
		Stats:    st,
		Programs: programs,
		Clear:    rendering.Clear,
	}
	loop.Run()

	if theApi != nil {
		return theApi.Err()
	}
	return nil
}

func closeWatcher(w *watcher.Watcher) {
	err := w.Close()
	if err != nil {
		slog.Warn(fmt.Sprintf("could not close watcher: %s", err), slog.String("module", "watcher"))
	}
}

func shutdownApi(a *api.Api) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := a.Shutdown(ctx)
	if err != nil {
		slog.Warn(fmt.Sprintf("could not stop web server: %s", err), slog.String("module", "api"))
	}
}
