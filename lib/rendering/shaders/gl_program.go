package shaders

import (
	"fmt"
)

// Program owns a driver-side program object. It remembers the handles of
// the shaders attached to it so they can be detached after linking; it
// does not own those shaders.
type Program struct {
	driver   Driver
	id       uint32
	attached []uint32
}

func NewProgram(d Driver) *Program {
	return &Program{
		driver: d,
		id:     d.CreateProgram(),
	}
}

// Attach attaches s and returns p so calls can be chained.
func (p *Program) Attach(s *Shader) *Program {
	p.driver.AttachShader(p.id, s.id)
	p.attached = append(p.attached, s.id)
	return p
}

// Link links all attached shaders. On success every attached shader is
// detached again. On failure the shaders stay attached and a *LinkError
// with the driver log is returned.
func (p *Program) Link() (*Program, error) {
	drainErrors(p.driver)
	p.driver.LinkProgram(p.id)
	if code := p.driver.GetError(); code != 0 {
		return nil, &DriverError{Op: "link", Object: "program", ID: p.id, Code: code}
	}

	ok, err := queryStatus(p.driver, "program", p.id, LinkStatus, p.driver.GetProgramiv)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &LinkError{Log: readInfoLog(p.id, p.driver.GetProgramiv, p.driver.GetProgramInfoLog)}
	}

	for _, shader := range p.attached {
		p.driver.DetachShader(p.id, shader)
	}
	p.attached = p.attached[:0]

	return p, nil
}

func (p *Program) Use() {
	p.driver.UseProgram(p.id)
}

func (p *Program) ID() uint32 {
	return p.id
}

// Attached returns the handles of the shaders that are still attached.
func (p *Program) Attached() []uint32 {
	ids := make([]uint32, len(p.attached))
	copy(ids, p.attached)
	return ids
}

// Delete frees the driver object. Calling it more than once is a no-op.
func (p *Program) Delete() {
	if p.id == 0 {
		return
	}
	p.driver.DeleteProgram(p.id)
	p.id = 0
	p.attached = nil
}

// Source is shader source for one stage, given either inline or as a
// path to read it from.
type Source struct {
	Stage Stage
	Path  string
	Text  string
}

func FromString(stage Stage, text string) Source {
	return Source{Stage: stage, Text: text}
}

func FromPath(stage Stage, path string) Source {
	return Source{Stage: stage, Path: path}
}

func (s Source) Compile(d Driver) (*Shader, error) {
	if s.Path != "" {
		return CompileFromPath(d, s.Path, s.Stage)
	}
	return Compile(d, s.Text, s.Stage)
}

func (s Source) String() string {
	if s.Path != "" {
		return fmt.Sprintf("%s (%s)", s.Path, s.Stage)
	}
	return fmt.Sprintf("<inline> (%s)", s.Stage)
}

// BuildProgram compiles every source, links the result and releases the
// intermediate shader objects whether or not that succeeded.
func BuildProgram(d Driver, sources ...Source) (*Program, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no shader sources given")
	}

	compiled := make([]*Shader, 0, len(sources))
	defer func() {
		for _, s := range compiled {
			s.Delete()
		}
	}()

	for _, src := range sources {
		s, err := src.Compile(d)
		if err != nil {
			return nil, fmt.Errorf("could not compile %s: %w", src, err)
		}
		compiled = append(compiled, s)
	}

	program := NewProgram(d)
	for _, s := range compiled {
		program.Attach(s)
	}

	linked, err := program.Link()
	if err != nil {
		program.Delete()
		return nil, err
	}
	return linked, nil
}
