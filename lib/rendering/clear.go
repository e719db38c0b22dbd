package rendering

import (
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

func SetClearColour(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
