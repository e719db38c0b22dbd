package shaders

import (
	"bytes"
	"fmt"
	"os"
)

// statusUnknown is what a status variable holds until the driver
// overwrites it. GL only ever reports GL_TRUE or GL_FALSE.
const statusUnknown int32 = -1

// maxStaleErrors bounds how many queued GL errors are discarded before a
// status query, so a broken context cannot spin forever.
const maxStaleErrors = 32

// Shader owns one compiled driver-side shader object.
type Shader struct {
	driver Driver
	id     uint32
	stage  Stage
}

// Compile submits source to the driver and compiles it for stage. On
// failure the shader object is released and a *CompileError holding the
// driver log is returned.
func Compile(d Driver, source string, stage Stage) (*Shader, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("cannot compile shader for unknown %s", stage)
	}

	drainErrors(d)
	id := d.CreateShader(stage)
	d.ShaderSource(id, source)
	d.CompileShader(id)
	if code := d.GetError(); code != 0 {
		d.DeleteShader(id)
		return nil, &DriverError{Op: "compile", Object: "shader", ID: id, Code: code}
	}

	ok, err := queryStatus(d, "shader", id, CompileStatus, d.GetShaderiv)
	if err != nil {
		d.DeleteShader(id)
		return nil, err
	}
	if !ok {
		clog := readInfoLog(id, d.GetShaderiv, d.GetShaderInfoLog)
		d.DeleteShader(id)
		return nil, &CompileError{Stage: stage, Log: clog}
	}

	return &Shader{driver: d, id: id, stage: stage}, nil
}

// CompileFromPath reads the whole file at path and compiles it. Read
// failures are reported as *IOError.
func CompileFromPath(d Driver, path string, stage Stage) (*Shader, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return Compile(d, string(source), stage)
}

func (s *Shader) ID() uint32 {
	return s.id
}

func (s *Shader) Stage() Stage {
	return s.stage
}

// Delete frees the driver object. Calling it more than once is a no-op.
func (s *Shader) Delete() {
	if s.id == 0 {
		return
	}
	s.driver.DeleteShader(s.id)
	s.id = 0
}

// queryStatus expects the GL error queue to be empty on entry.
func queryStatus(d Driver, object string, id uint32, param Param, query func(uint32, Param, *int32)) (bool, error) {
	status := statusUnknown
	query(id, param, &status)
	if code := d.GetError(); code != 0 {
		return false, &StatusQueryError{Object: object, ID: id, Code: code}
	}
	if status == statusUnknown {
		return false, &StatusQueryError{Object: object, ID: id}
	}
	return status != 0, nil
}

func drainErrors(d Driver) {
	for i := 0; i < maxStaleErrors; i++ {
		if d.GetError() == 0 {
			return
		}
	}
}

func readInfoLog(id uint32, query func(uint32, Param, *int32), fill func(uint32, []byte) int32) string {
	var length int32
	query(id, InfoLogLength, &length)
	return infoLog(length, func(buf []byte) int32 {
		return fill(id, buf)
	})
}

// infoLog allocates a buffer of the reported length and lets fill write
// the log into it. A zero length yields an empty string.
func infoLog(length int32, fill func(buf []byte) int32) string {
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	n := int(fill(buf))
	if n <= 0 || n > len(buf) {
		// driver did not report how much it wrote, stop at the terminator
		n = bytes.IndexByte(buf, 0)
		if n < 0 {
			n = len(buf)
		}
	}
	return string(buf[:n])
}
