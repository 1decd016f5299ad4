package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/app"
	"github.com/Freeeeeet/college_scheduler/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting college scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("store_driver", cfg.StoreDriver),
		zap.Duration("store_timeout", cfg.StoreTimeout))

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("Failed to close application", zap.Error(err))
		}
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		return
	}

	logger.Info("Application stopped")
}
