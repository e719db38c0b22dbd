package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "fragment.frag")
	other := filepath.Join(dir, "other.frag")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("#version 430\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	changed := make(chan string, 4)
	w, err := New([]string{watched}, func(path string) {
		changed <- path
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	if err := os.WriteFile(other, []byte("#version 410\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte("#version 430 core\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		if path != watched {
			t.Errorf("expected %s, got %s", watched, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "a.vert")}, func(string) {})
	if err == nil {
		t.Fatal("expected error for a missing directory")
	}
}
