package kbdctl

import (
	"github.com/fosdem/glbootstrap/lib/session"
	"github.com/fosdem/glbootstrap/lib/sink/windowsink"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type closer interface {
	RequestClose()
}

func SetupShortcutKeys(s *session.Session, ws *windowsink.WindowSink) {
	ws.Window.SetKeyCallback(keyCallback(s, ws))
}

// keyCallback quits on ctrl+shift+q by closing the window, so the render
// loop sees the same close as a click on the title bar.
func keyCallback(s *session.Session, c closer) glfw.KeyCallback {
	return func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if isQuitShortcut(key, action, mods) {
			s.RequestShutdown("ctrl+shift+q pressed")
			c.RequestClose()
		}
	}
}

func isQuitShortcut(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) bool {
	return action == glfw.Release &&
		key == glfw.KeyQ &&
		mods&glfw.ModControl != 0 &&
		mods&glfw.ModShift != 0
}
