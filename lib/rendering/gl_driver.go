package rendering

import (
	"github.com/fosdem/glbootstrap/lib/rendering/shaders"
	"github.com/go-gl/gl/v4.3-core/gl"
)

var stageTypes = map[shaders.Stage]uint32{
	shaders.VertexStage:   gl.VERTEX_SHADER,
	shaders.FragmentStage: gl.FRAGMENT_SHADER,
	shaders.GeometryStage: gl.GEOMETRY_SHADER,
	shaders.ComputeStage:  gl.COMPUTE_SHADER,
}

var paramNames = map[shaders.Param]uint32{
	shaders.CompileStatus: gl.COMPILE_STATUS,
	shaders.LinkStatus:    gl.LINK_STATUS,
	shaders.InfoLogLength: gl.INFO_LOG_LENGTH,
}

// glDriver forwards shader and program calls to the current GL context.
type glDriver struct{}

// NewDriver returns the shaders.Driver backed by the GL context that is
// current on the calling thread. Init must have been called first.
func NewDriver() shaders.Driver {
	return glDriver{}
}

func (glDriver) CreateShader(stage shaders.Stage) uint32 {
	return gl.CreateShader(stageTypes[stage])
}

func (glDriver) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source)
	size := int32(len(source))
	gl.ShaderSource(shader, 1, csources, &size)
	free()
}

func (glDriver) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (glDriver) GetShaderiv(shader uint32, param shaders.Param, value *int32) {
	gl.GetShaderiv(shader, paramNames[param], value)
}

func (glDriver) GetShaderInfoLog(shader uint32, buf []byte) int32 {
	if len(buf) == 0 {
		return 0
	}
	var written int32
	gl.GetShaderInfoLog(shader, int32(len(buf)), &written, &buf[0])
	return written
}

func (glDriver) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (glDriver) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (glDriver) AttachShader(program uint32, shader uint32) {
	gl.AttachShader(program, shader)
}

func (glDriver) DetachShader(program uint32, shader uint32) {
	gl.DetachShader(program, shader)
}

func (glDriver) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (glDriver) GetProgramiv(program uint32, param shaders.Param, value *int32) {
	gl.GetProgramiv(program, paramNames[param], value)
}

func (glDriver) GetProgramInfoLog(program uint32, buf []byte) int32 {
	if len(buf) == 0 {
		return 0
	}
	var written int32
	gl.GetProgramInfoLog(program, int32(len(buf)), &written, &buf[0])
	return written
}

func (glDriver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (glDriver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (glDriver) GetError() uint32 {
	return gl.GetError()
}
