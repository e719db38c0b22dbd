package rendering

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// ProcAddressLoader resolves a GL entry point by name, as provided by the
// windowing library.
type ProcAddressLoader func(name string) unsafe.Pointer

// Init loads the GL entry points through loader. The context that should
// be used must already be current on the calling thread.
func Init(loader ProcAddressLoader) error {
	err := gl.InitWithProcAddrFunc(loader)
	if err != nil {
		return fmt.Errorf("could not initialise OpenGL context: %w", err)
	}

	slog.Info(
		fmt.Sprintf("OpenGL version '%s'", Version()),
		slog.String("module", "rendering"),
		slog.String("vendor", gl.GoStr(gl.GetString(gl.VENDOR))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	return nil
}

func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}
