// Package main provides the dungeon server binary: the turn engine behind a
// JSON HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mazmorra/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	a, cleanup, err := initializeApp(cfg)
	if err != nil {
		log.Fatalf("initializing server: %v", err)
	}
	defer cleanup()

	a.Logger.Info("dungeon server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("narrator", cfg.Narrator.Provider),
	)

	if err := a.Lifecycle.Run(context.Background()); err != nil {
		a.Logger.Error("server error", zap.Error(err))
	}
}
