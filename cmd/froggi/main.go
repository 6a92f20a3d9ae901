// Package main is the entry point for the froggi demo game.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/config"
	"github.com/mechanicchickendev/froggi/internal/engine"
	"github.com/mechanicchickendev/froggi/internal/game"
	"github.com/mechanicchickendev/froggi/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== froggi ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	e, err := engine.New(game.New(cfg), cfg)
	if err != nil {
		logger.Error("failed to start engine", zap.Error(err))
		os.Exit(1)
	}

	e.Run()
	logger.Info("engine closed normally")
}
