// Package session holds the state shared between the render loop and
// the goroutines that may ask it to quit or to rebuild its program.
package session

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

type Session struct {
	shutdown atomic.Bool
	reload   atomic.Bool

	listenerMutex sync.Mutex
	listener      map[string][]EventListener
}

func New() *Session {
	return &Session{
		listener: make(map[string][]EventListener),
	}
}

// RequestShutdown makes the render loop stop after the current frame.
func (s *Session) RequestShutdown(reason string) {
	if s.shutdown.Swap(true) {
		return
	}
	slog.Info("told to quit: "+reason, slog.String("module", "session"))
	s.invoke(EventQuit, EventDataQuit{Event: EventQuit, Reason: reason})
}

func (s *Session) ShutdownRequested() bool {
	return s.shutdown.Load()
}

// RequestReload asks the render loop to rebuild its program. Requests
// made before the loop gets to it are coalesced.
func (s *Session) RequestReload(reason string) {
	slog.Debug("program reload requested: "+reason, slog.String("module", "session"))
	s.reload.Store(true)
}

// TakeReload reports whether a reload was requested and clears the request.
func (s *Session) TakeReload() bool {
	return s.reload.Swap(false)
}
