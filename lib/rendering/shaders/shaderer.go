package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed *.frag *.vert
var templateDir embed.FS

const (
	DefaultVertexShader   = "default.vert"
	DefaultFragmentShader = "default.frag"
)

// Shaderer renders the built-in shader templates.
type Shaderer struct {
	templates *template.Template
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error

	s.templates, err = template.ParseFS(templateDir, "*.frag", "*.vert")

	return s, err
}

// ShaderData contains stuff that gets passed to the shader templates
type ShaderData struct {
	GLSLVersion int
}

// NewShaderData picks the GLSL version matching a GL context version.
func NewShaderData(glMajor, glMinor int) *ShaderData {
	return &ShaderData{GLSLVersion: GLSLVersion(glMajor, glMinor)}
}

// GLSLVersion maps a GL version to the #version number of its shading
// language. GL 3.3 and later share their version number with GLSL.
func GLSLVersion(glMajor, glMinor int) int {
	if glMajor > 3 || (glMajor == 3 && glMinor >= 3) {
		return glMajor*100 + glMinor*10
	}
	switch {
	case glMajor == 3 && glMinor == 2:
		return 150
	case glMajor == 3 && glMinor == 1:
		return 140
	case glMajor == 3:
		return 130
	default:
		return 120
	}
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %s", err)
	}

	return b.String(), nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		names = append(names, t.Name())
	}
	return names
}

// DefaultSources renders the built-in vertex and fragment shaders.
func (s *Shaderer) DefaultSources(data *ShaderData) ([]Source, error) {
	vertexShader, err := s.GetShaderSource(DefaultVertexShader, data)
	if err != nil {
		return nil, fmt.Errorf("could not get vertex shader: %w", err)
	}

	fragmentShader, err := s.GetShaderSource(DefaultFragmentShader, data)
	if err != nil {
		return nil, fmt.Errorf("could not get fragment shader: %w", err)
	}

	return []Source{
		FromString(VertexStage, vertexShader),
		FromString(FragmentStage, fragmentShader),
	}, nil
}
