package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-retail-api/internal/app"
	"go-retail-api/internal/config"
	"go-retail-api/internal/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	l, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// build dependency + routes
	a, err := app.BuildApp(cfg, l)
	if err != nil {
		l.Fatal("app build failed", zap.Error(err))
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		l.Error("server stopped with error", zap.Error(err))
		return
	}
	l.Info("server stopped")
}
