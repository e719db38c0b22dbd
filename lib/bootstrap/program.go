package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fosdem/glbootstrap/lib/config"
	"github.com/fosdem/glbootstrap/lib/metrics"
	"github.com/fosdem/glbootstrap/lib/rendering/shaders"
)

// ProgramBuilder builds the program described by the config and keeps
// the active one around so it can be swapped out on reload.
type ProgramBuilder struct {
	driver  shaders.Driver
	sources []shaders.Source
	program *shaders.Program
}

// NewProgramBuilder resolves the shader sources once: the configured
// files, or the built-in shaders for the configured GL version.
func NewProgramBuilder(d shaders.Driver, cfg *config.Config) (*ProgramBuilder, error) {
	sources := cfg.ShaderSources()
	if len(sources) == 0 {
		shaderer, err := shaders.NewShaderer()
		if err != nil {
			return nil, fmt.Errorf("could not get shaders: %w", err)
		}
		sources, err = shaderer.DefaultSources(shaders.NewShaderData(cfg.Window.GL.Major, cfg.Window.GL.Minor))
		if err != nil {
			return nil, err
		}
	}
	return &ProgramBuilder{driver: d, sources: sources}, nil
}

// Build compiles and links the program and makes it current. If a
// program is already active it is only replaced when the new one links.
func (b *ProgramBuilder) Build() error {
	program, err := shaders.BuildProgram(b.driver, b.sources...)
	if err != nil {
		countFailure(err)
		return err
	}
	metrics.ProgramLinks.Inc()

	program.Use()
	if b.program != nil {
		b.program.Delete()
	}
	b.program = program

	slog.Info(fmt.Sprintf("Program %d linked from %d shaders", program.ID(), len(b.sources)), slog.String("module", "shaders"))
	return nil
}

func (b *ProgramBuilder) Program() *shaders.Program {
	return b.program
}

func (b *ProgramBuilder) Delete() {
	if b.program != nil {
		b.program.Delete()
		b.program = nil
	}
}

func countFailure(err error) {
	var compileErr *shaders.CompileError
	var linkErr *shaders.LinkError
	switch {
	case errors.As(err, &compileErr):
		metrics.ShaderCompileFailures.WithLabelValues(compileErr.Stage.String()).Inc()
	case errors.As(err, &linkErr):
		metrics.ProgramLinkFailures.Inc()
	}
}
