package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fosdem/glbootstrap/lib/rendering/shaders"
	"github.com/fosdem/glbootstrap/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

type Config struct {
	Window      WindowCfg
	Shaders     []*ShaderCfg
	ClearColour string `yaml:"clear_colour"`
	LogLevel    string `yaml:"log_level"`
	Api         *ApiCfg
}

type WindowCfg struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	VSync     bool  `yaml:"vsync"`
	GL        GLCfg `yaml:"gl"`
}

// GLCfg describes the requested context. Only core profiles are created.
type GLCfg struct {
	Major   int
	Minor   int
	Debug   bool
	Samples int
}

type ShaderCfg struct {
	Path  CfgPath
	Stage shaders.Stage
	Watch bool
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

// Default matches what the program does without a config file.
func Default() *Config {
	return &Config{
		Window: WindowCfg{
			Title:     "OpenGL",
			Width:     800,
			Height:    600,
			Resizable: true,
			VSync:     true,
			GL: GLCfg{
				Major:   4,
				Minor:   3,
				Debug:   true,
				Samples: 4,
			},
		},
		ClearColour: "#4c4c80ff",
		LogLevel:    "info",
	}
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			slog.Warn(fmt.Sprintf("could not close %s: %s", filename, err), slog.String("module", "config"))
		}
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f)
	cfg := Default()
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	err := c.Window.Validate()
	if err != nil {
		return fmt.Errorf("window is invalid: %w", err)
	}

	for i, s := range c.Shaders {
		err = s.Validate()
		if err != nil {
			return fmt.Errorf("shader %d is invalid: %w", i, err)
		}
	}

	if c.ClearColour == "" {
		return fmt.Errorf("please set clear_colour in the config")
	}
	if !utils.ColourValidate(c.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", c.ClearColour)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Api != nil && c.Api.Bind == "" {
		return fmt.Errorf("api section needs a bind address")
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return level, fmt.Errorf("%s is not a valid log level: %w", c.LogLevel, err)
	}
	return level, nil
}

// ShaderSources returns the configured shader files. It is empty when the
// built-in shaders should be used.
func (c *Config) ShaderSources() []shaders.Source {
	sources := make([]shaders.Source, 0, len(c.Shaders))
	for _, s := range c.Shaders {
		sources = append(sources, shaders.FromPath(s.Stage, string(s.Path)))
	}
	return sources
}

// WatchedPaths lists shader files that should trigger a reload when they
// change on disk.
func (c *Config) WatchedPaths() []string {
	var paths []string
	for _, s := range c.Shaders {
		if s.Watch {
			paths = append(paths, string(s.Path))
		}
	}
	return paths
}

func (c *Config) String() string {
	var b strings.Builder
	w := c.Window
	b.WriteString("Window:\n")
	b.WriteString(fmt.Sprintf("  %s (%dx%d, OpenGL %d.%d core", w.Title, w.Width, w.Height, w.GL.Major, w.GL.Minor))
	if w.GL.Samples > 0 {
		b.WriteString(fmt.Sprintf(", %dx MSAA", w.GL.Samples))
	}
	b.WriteString(")\n")

	b.WriteString("\nShaders:\n")
	if len(c.Shaders) == 0 {
		b.WriteString("  built-in\n")
	}
	for _, s := range c.Shaders {
		b.WriteString(fmt.Sprintf("  %s (%s)", s.Path, s.Stage))
		if s.Watch {
			b.WriteString(" [watched]")
		}
		b.WriteString("\n")
	}

	if c.Api != nil {
		b.WriteString(fmt.Sprintf("\nApi:\n  %s\n", c.Api.Bind))
	}

	return b.String()
}

func (w *WindowCfg) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("size %dx%d is not positive", w.Width, w.Height)
	}
	return w.GL.Validate()
}

func (g *GLCfg) Validate() error {
	if g.Major < 3 || (g.Major == 3 && g.Minor < 2) {
		return fmt.Errorf("OpenGL %d.%d has no core profile, need at least 3.2", g.Major, g.Minor)
	}
	if g.Major > 4 || g.Minor < 0 || (g.Major == 4 && g.Minor > 6) {
		return fmt.Errorf("OpenGL %d.%d does not exist", g.Major, g.Minor)
	}
	if g.Samples < 0 {
		return fmt.Errorf("samples must not be negative")
	}
	return nil
}

func (s *ShaderCfg) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("path must be set")
	}
	if s.Stage == 0 {
		stage, ok := shaders.StageForPath(string(s.Path))
		if !ok {
			return fmt.Errorf("cannot guess the stage of %s, please set it", s.Path)
		}
		s.Stage = stage
	}
	return nil
}
