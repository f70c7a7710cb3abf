package main

import (
	"flag"
	"log"

	"github.com/danmuck/omegaclient/internal/config"
)

func main() {
	kind := flag.String("kind", "client", "config kind: client|minimal")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to cmd/omegad/config.toml)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = "cmd/omegad/config.toml"
		}
		if _, err := config.LoadClientConfig(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated client config at %s", path)
		return
	}

	target := *output
	if target == "" {
		target = "cmd/omegad/config.toml"
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}
