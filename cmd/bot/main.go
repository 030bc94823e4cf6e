package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"radioBot/internal/app/runtime"
	"radioBot/internal/infrastructure/config"
	"radioBot/internal/infrastructure/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "radiobot: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "radiobot: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rt, err := runtime.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build bot", zap.Error(err))
	}

	if err := rt.Run(ctx); err != nil {
		logger.Error("bot exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
