package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jhenstridge/go-inotify"
)

// Watcher calls back when one of a set of files was rewritten.
// Directories are watched rather than the files themselves, so editors
// that replace a file by renaming over it are noticed as well.
type Watcher struct {
	watcher  *inotify.Watcher
	paths    map[string]bool
	onChange func(path string)
	stop     chan struct{}
	done     chan struct{}
}

func New(paths []string, onChange func(path string)) (*Watcher, error) {
	watcher, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not start inotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  watcher,
		paths:    make(map[string]bool),
		onChange: onChange,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("somehow, %s is malformed: %w", p, err)
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		_, err = watcher.Watch(dir)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("could not watch %s: %w", dir, err)
		}
	}

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.watcher.Event:
			if !ok {
				return
			}
			if ev.Mask&(inotify.IN_CLOSE_WRITE|inotify.IN_MOVED_TO) == 0 {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !w.paths[path] {
				continue
			}
			slog.Debug("shader changed: "+path, slog.String("module", "watcher"))
			w.onChange(path)
		case err, ok := <-w.watcher.Error:
			if !ok {
				return
			}
			slog.Error(fmt.Sprintf("inotify error: %s", err), slog.String("module", "watcher"))
		}
	}
}

func (w *Watcher) Close() error {
	close(w.stop)
	<-w.done
	return w.watcher.Close()
}
