package shaders

import (
	"fmt"
	"path/filepath"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// Stage identifies the pipeline stage a shader is compiled for.
type Stage int

const (
	VertexStage Stage = iota + 1
	FragmentStage
	GeometryStage
	ComputeStage
)

var stageNames = map[Stage]string{
	VertexStage:   "vertex",
	FragmentStage: "fragment",
	GeometryStage: "geometry",
	ComputeStage:  "compute",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

func ParseStage(name string) (Stage, error) {
	for stage, stageName := range stageNames {
		if strings.EqualFold(stageName, name) {
			return stage, nil
		}
	}
	return 0, fmt.Errorf("unknown shader stage %q", name)
}

func (s *Stage) UnmarshalYAML(b []byte) error {
	var name string
	err := yaml.Unmarshal(b, &name)
	if err != nil {
		return err
	}
	*s, err = ParseStage(name)
	return err
}

// Param names an object parameter queried from the driver.
type Param int

const (
	CompileStatus Param = iota + 1
	LinkStatus
	InfoLogLength
)

// Driver is the subset of the GL API needed to build programs. The
// methods mirror their GL counterparts; info log readers return the
// number of bytes written into buf, excluding the terminating NUL.
type Driver interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, param Param, value *int32)
	GetShaderInfoLog(shader uint32, buf []byte) int32
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program uint32, shader uint32)
	DetachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, param Param, value *int32)
	GetProgramInfoLog(program uint32, buf []byte) int32
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GetError() uint32
}

var stageExtensions = map[string]Stage{
	".vert": VertexStage,
	".vs":   VertexStage,
	".frag": FragmentStage,
	".fs":   FragmentStage,
	".geom": GeometryStage,
	".gs":   GeometryStage,
	".comp": ComputeStage,
	".cs":   ComputeStage,
}

// StageForPath guesses the stage of a shader file from its extension.
func StageForPath(path string) (Stage, bool) {
	stage, ok := stageExtensions[strings.ToLower(filepath.Ext(path))]
	return stage, ok
}
