//go:build !linux

package watcher

import "fmt"

type Watcher struct{}

func New(paths []string, onChange func(path string)) (*Watcher, error) {
	return nil, fmt.Errorf("watching shader files is only supported on linux")
}

func (w *Watcher) Close() error {
	return nil
}
