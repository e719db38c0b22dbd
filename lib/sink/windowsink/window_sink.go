package windowsink

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/fosdem/glbootstrap/lib/config"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowSink is the window the program presents its frames to. All of
// its methods must be called from the thread that called Start.
type WindowSink struct {
	cfg    config.WindowCfg
	Window *glfw.Window
}

func New(cfg config.WindowCfg) *WindowSink {
	return &WindowSink{cfg: cfg}
}

func (w *WindowSink) Start() error {
	if w.Window != nil {
		return nil
	}
	window, err := w.makeWindow()
	if err != nil {
		return err
	}
	w.Window = window
	return nil
}

func (w *WindowSink) makeWindow() (*glfw.Window, error) {
	w.log("Initializing window")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glCfg := w.cfg.GL
	glfw.WindowHint(glfw.Resizable, glfwBool(w.cfg.Resizable))
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, glCfg.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, glCfg.Minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfwBool(glCfg.Debug))
	glfw.WindowHint(glfw.Samples, glCfg.Samples)
	window, err := glfw.CreateWindow(w.cfg.Width, w.cfg.Height, w.cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create %dx%d window with OpenGL %d.%d core: %w", w.cfg.Width, w.cfg.Height, glCfg.Major, glCfg.Minor, err)
	}

	if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
		if mode := monitor.GetVideoMode(); mode != nil {
			window.SetPos((mode.Width-w.cfg.Width)/2, (mode.Height-w.cfg.Height)/2)
		}
	}
	window.Show()

	window.MakeContextCurrent()
	if w.cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return window, nil
}

// ProcAddress resolves GL entry points for the current context.
func (w *WindowSink) ProcAddress(name string) unsafe.Pointer {
	return glfw.GetProcAddress(name)
}

func (w *WindowSink) PollEvents() {
	glfw.PollEvents()
}

func (w *WindowSink) ShouldClose() bool {
	return w.Window.ShouldClose()
}

func (w *WindowSink) RequestClose() {
	w.Window.SetShouldClose(true)
}

func (w *WindowSink) SwapBuffers() {
	w.Window.SwapBuffers()
}

// Destroy closes the window and releases glfw.
func (w *WindowSink) Destroy() {
	if w.Window == nil {
		return
	}
	w.Window.Destroy()
	w.Window = nil
	glfw.Terminate()
}

func (w *WindowSink) log(msg string, args ...interface{}) {
	slog.Info(fmt.Sprintf(msg, args...), slog.String("module", w.cfg.Title))
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
