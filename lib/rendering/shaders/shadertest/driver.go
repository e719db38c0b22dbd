// Package shadertest provides an in-memory shaders.Driver for tests that
// cannot create a GL context.
//
// The driver performs a tiny subset of GLSL checking, enough to produce
// Mesa-style diagnostics: a #version directive is required, a statement
// closed by '}' without a ';' is a syntax error, and at link time every
// fragment shader input needs a matching vertex shader output.
package shadertest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fosdem/glbootstrap/lib/rendering/shaders"
)

const (
	// InvalidEnum is the value of GL_INVALID_ENUM.
	InvalidEnum uint32 = 0x0500
	// InvalidOperation is the value of GL_INVALID_OPERATION.
	InvalidOperation uint32 = 0x0502
)

type shader struct {
	stage    shaders.Stage
	source   string
	compiled bool
	log      string
	deleted  bool
}

type program struct {
	attached []uint32
	linked   bool
	log      string
	deleted  bool
}

type Driver struct {
	// FailStatusQuery makes every status query raise InvalidOperation
	// without writing the status.
	FailStatusQuery bool
	// SilentStatusQuery makes status queries return without writing the
	// status and without raising an error.
	SilentStatusQuery bool
	// EmptyLogs makes failed compiles and links report a zero-length log.
	EmptyLogs bool
	// CompileRaises, when set, is raised by every CompileShader call.
	CompileRaises uint32

	next     uint32
	errors   []uint32
	current  uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
}

func New() *Driver {
	return &Driver{
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
	}
}

func (d *Driver) handle() uint32 {
	d.next++
	return d.next
}

func (d *Driver) raise(code uint32) {
	d.errors = append(d.errors, code)
}

func (d *Driver) CreateShader(stage shaders.Stage) uint32 {
	if !stage.Valid() {
		d.raise(InvalidEnum)
		return 0
	}
	id := d.handle()
	d.shaders[id] = &shader{stage: stage}
	return id
}

func (d *Driver) ShaderSource(id uint32, source string) {
	s, ok := d.shaders[id]
	if !ok || s.deleted {
		d.raise(InvalidOperation)
		return
	}
	s.source = source
}

func (d *Driver) CompileShader(id uint32) {
	s, ok := d.shaders[id]
	if !ok || s.deleted {
		d.raise(InvalidOperation)
		return
	}
	if d.CompileRaises != 0 {
		d.raise(d.CompileRaises)
		return
	}
	s.log = checkSource(s.source)
	s.compiled = s.log == ""
}

func (d *Driver) GetShaderiv(id uint32, param shaders.Param, value *int32) {
	s, ok := d.shaders[id]
	if !ok || s.deleted {
		d.raise(InvalidOperation)
		return
	}
	switch param {
	case shaders.CompileStatus:
		d.writeStatus(s.compiled, value)
	case shaders.InfoLogLength:
		*value = d.logLength(s.log)
	default:
		d.raise(InvalidOperation)
	}
}

func (d *Driver) GetShaderInfoLog(id uint32, buf []byte) int32 {
	s, ok := d.shaders[id]
	if !ok || s.deleted {
		d.raise(InvalidOperation)
		return 0
	}
	return d.copyLog(s.log, buf)
}

func (d *Driver) DeleteShader(id uint32) {
	if s, ok := d.shaders[id]; ok {
		s.deleted = true
	}
}

func (d *Driver) CreateProgram() uint32 {
	id := d.handle()
	d.programs[id] = &program{}
	return id
}

func (d *Driver) AttachShader(programID uint32, shaderID uint32) {
	p, ok := d.programs[programID]
	if !ok || p.deleted {
		d.raise(InvalidOperation)
		return
	}
	if _, ok := d.shaders[shaderID]; !ok {
		d.raise(InvalidOperation)
		return
	}
	p.attached = append(p.attached, shaderID)
}

func (d *Driver) DetachShader(programID uint32, shaderID uint32) {
	p, ok := d.programs[programID]
	if !ok {
		d.raise(InvalidOperation)
		return
	}
	for i, id := range p.attached {
		if id == shaderID {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			return
		}
	}
	d.raise(InvalidOperation)
}

func (d *Driver) LinkProgram(programID uint32) {
	p, ok := d.programs[programID]
	if !ok || p.deleted {
		d.raise(InvalidOperation)
		return
	}
	attached := make([]*shader, 0, len(p.attached))
	for _, id := range p.attached {
		attached = append(attached, d.shaders[id])
	}
	p.log = checkLink(attached)
	p.linked = p.log == ""
}

func (d *Driver) GetProgramiv(programID uint32, param shaders.Param, value *int32) {
	p, ok := d.programs[programID]
	if !ok || p.deleted {
		d.raise(InvalidOperation)
		return
	}
	switch param {
	case shaders.LinkStatus:
		d.writeStatus(p.linked, value)
	case shaders.InfoLogLength:
		*value = d.logLength(p.log)
	default:
		d.raise(InvalidOperation)
	}
}

func (d *Driver) GetProgramInfoLog(programID uint32, buf []byte) int32 {
	p, ok := d.programs[programID]
	if !ok || p.deleted {
		d.raise(InvalidOperation)
		return 0
	}
	return d.copyLog(p.log, buf)
}

func (d *Driver) UseProgram(programID uint32) {
	if programID == 0 {
		d.current = 0
		return
	}
	p, ok := d.programs[programID]
	if !ok || p.deleted || !p.linked {
		d.raise(InvalidOperation)
		return
	}
	d.current = programID
}

func (d *Driver) DeleteProgram(programID uint32) {
	if p, ok := d.programs[programID]; ok {
		p.deleted = true
		if d.current == programID {
			d.current = 0
		}
	}
}

func (d *Driver) GetError() uint32 {
	if len(d.errors) == 0 {
		return 0
	}
	code := d.errors[0]
	d.errors = d.errors[1:]
	return code
}

// Raise queues a GL error as if an earlier call had failed.
func (d *Driver) Raise(code uint32) {
	d.raise(code)
}

func (d *Driver) CurrentProgram() uint32 {
	return d.current
}

// AttachedShaders reports what the driver thinks is attached to a program.
func (d *Driver) AttachedShaders(programID uint32) []uint32 {
	p, ok := d.programs[programID]
	if !ok {
		return nil
	}
	ids := make([]uint32, len(p.attached))
	copy(ids, p.attached)
	return ids
}

func (d *Driver) ShaderDeleted(id uint32) bool {
	s, ok := d.shaders[id]
	return ok && s.deleted
}

func (d *Driver) ProgramDeleted(id uint32) bool {
	p, ok := d.programs[id]
	return ok && p.deleted
}

// Live counts shader and program objects that were created but not deleted.
func (d *Driver) Live() int {
	n := 0
	for _, s := range d.shaders {
		if !s.deleted {
			n++
		}
	}
	for _, p := range d.programs {
		if !p.deleted {
			n++
		}
	}
	return n
}

func (d *Driver) writeStatus(ok bool, value *int32) {
	if d.FailStatusQuery {
		d.raise(InvalidOperation)
		return
	}
	if d.SilentStatusQuery {
		return
	}
	if ok {
		*value = 1
	} else {
		*value = 0
	}
}

func (d *Driver) logLength(log string) int32 {
	if log == "" || d.EmptyLogs {
		return 0
	}
	// GL counts the terminating NUL
	return int32(len(log) + 1)
}

func (d *Driver) copyLog(log string, buf []byte) int32 {
	if len(buf) == 0 || d.EmptyLogs {
		return 0
	}
	n := copy(buf[:len(buf)-1], log)
	buf[n] = 0
	return int32(n)
}

var (
	inputDecl  = regexp.MustCompile(`(?m)(?:^|[;\s])in\s+\w+\s+(\w+)\s*;`)
	outputDecl = regexp.MustCompile(`(?m)(?:^|[;\s])out\s+\w+\s+(\w+)\s*;`)
	mainDecl   = regexp.MustCompile(`\bvoid\s+main\s*\(`)
)

func checkSource(source string) string {
	trimmed := strings.TrimLeft(source, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return "0:1(1): error: syntax error, missing #version directive\n"
	}

	line, col := 1, 0
	var prev rune
	for _, r := range source {
		col++
		switch {
		case r == '\n':
			line++
			col = 0
			continue
		case r == '}' && prev != ';' && prev != '{' && prev != '}' && prev != 0:
			return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected '}', expecting ',' or ';'\n", line, col)
		}
		if r != ' ' && r != '\t' && r != '\r' {
			prev = r
		}
	}

	if !mainDecl.MatchString(source) {
		return "error: no main function defined\n"
	}
	return ""
}

func checkLink(attached []*shader) string {
	if len(attached) == 0 {
		return "error: no shaders attached to the program\n"
	}

	outputs := make(map[string]bool)
	seen := make(map[shaders.Stage]bool)
	for _, s := range attached {
		if !s.compiled {
			return "error: linking with uncompiled/unspecialized shader\n"
		}
		if seen[s.stage] {
			return "error: function `main' is multiply defined\n"
		}
		seen[s.stage] = true
		if s.stage == shaders.VertexStage {
			for _, m := range outputDecl.FindAllStringSubmatch(s.source, -1) {
				outputs[m[1]] = true
			}
		}
	}

	for _, s := range attached {
		if s.stage != shaders.FragmentStage {
			continue
		}
		for _, m := range inputDecl.FindAllStringSubmatch(s.source, -1) {
			if !outputs[m[1]] {
				return fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage\n", m[1])
			}
		}
	}
	return ""
}
