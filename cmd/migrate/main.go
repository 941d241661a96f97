package main

import (
	"context"
	"flag"
	"log"

	"go-retail-api/internal/config"
	"go-retail-api/internal/pkg/logger"
	"go-retail-api/internal/shared/connection"
	"go-retail-api/internal/shared/database"
	"go-retail-api/internal/shared/database/seed"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	withSeed := flag.Bool("seed", false, "upsert the demo catalog after migrating up")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	l, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = l.Sync() }()

	db, err := connection.ConnectDBWithRetry(cfg.DBURL, cfg.ConnectRetries, l)
	if err != nil {
		l.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if *down > 0 {
		if err := database.MigrateDown(db, cfg.MigrationsDir, *down); err != nil {
			l.Fatal("rollback failed", zap.Error(err))
		}
		l.Info("rolled back", zap.Int("steps", *down))
		return
	}

	if err := database.MigrateUp(db, cfg.MigrationsDir, l); err != nil {
		l.Fatal("migration failed", zap.Error(err))
	}

	if *withSeed {
		if err := seed.SeedProducts(context.Background(), db, seed.DemoCatalog, l); err != nil {
			l.Fatal("seed failed", zap.Error(err))
		}
	}
}
