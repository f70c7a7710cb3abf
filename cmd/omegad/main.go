package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/omegaclient/internal/observability"
	"github.com/danmuck/omegaclient/internal/omega"
	"github.com/danmuck/omegaclient/internal/protocol/jsoncodec"
)

func main() {
	configPath := flag.String("config", "cmd/omegad/config.toml", "path to the client config")
	flag.Parse()

	logger := observability.InitLogger("omegad")

	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "omegad: %v\n", err)
		os.Exit(1)
	}

	svc, err := omega.NewService(cfg, jsoncodec.New(), &reportHandler{log: logger}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "omegad: %v\n", err)
		os.Exit(1)
	}
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "omegad: %v\n", err)
		os.Exit(1)
	}
}
