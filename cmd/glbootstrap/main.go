package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/fosdem/glbootstrap/lib/bootstrap"
	"github.com/fosdem/glbootstrap/lib/config"
	applog "github.com/fosdem/glbootstrap/lib/log"
	"github.com/fosdem/glbootstrap/lib/rendering/shaders"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	cfgPath := flag.String("config", "", "Path to a YAML config file, built-in defaults are used when empty")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Parse(*cfgPath)
		if err != nil {
			log.Fatalf("could not load config: %s", err)
		}
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	applog.Setup(os.Stdout, level)

	err = bootstrap.MakeWindowAndRun(cfg)
	if err != nil {
		var compileErr *shaders.CompileError
		var linkErr *shaders.LinkError
		switch {
		case errors.As(err, &compileErr):
			slog.Error("Failed to create "+compileErr.Stage.String()+" shader:\n"+compileErr.Log, slog.String("module", "shaders"))
		case errors.As(err, &linkErr):
			slog.Error("Failed to link the shader program:\n"+linkErr.Log, slog.String("module", "shaders"))
		default:
			slog.Error(err.Error())
		}
		os.Exit(1)
	}
}
