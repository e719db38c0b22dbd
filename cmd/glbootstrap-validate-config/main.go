package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fosdem/glbootstrap/lib/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <config file>", os.Args[0])
	}
	cfg, err := config.Parse(os.Args[1])
	if err != nil {
		fmt.Printf("Config invalid: %s\n", err)
		os.Exit(1)
	}

	// shaders are only compiled once there is a context, but at least
	// make sure they can be read
	missing := 0
	for _, s := range cfg.Shaders {
		if _, err := os.Stat(string(s.Path)); err != nil {
			fmt.Printf("Shader %s is not readable: %s\n", s.Path, err)
			missing++
		}
	}
	if missing > 0 {
		os.Exit(1)
	}

	fmt.Print("Config valid!\n\n")
	fmt.Print(cfg)
}
