package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-retail-api/internal/config"
	"go-retail-api/internal/middleware"
	"go-retail-api/internal/shared/connection"
	"go-retail-api/internal/shared/database"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client

	cfg    config.Config
	logger *zap.Logger
}

// BuildApp connects infrastructure, optionally migrates, and registers every
// module on a fresh router.
func BuildApp(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. Infrastructure
	db, err := connection.ConnectDBWithRetry(cfg.DBURL, cfg.ConnectRetries, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.RunMigrations {
		if err := database.MigrateUp(db, cfg.MigrationsDir, logger); err != nil {
			_ = rdb.Close()
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	// 2. Router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
	)

	// 3. Modules & routes
	registerModules(router, Deps{
		DB:     db,
		Redis:  rdb,
		Config: cfg,
		Logger: logger,
	})

	return &App{
		Router: router,
		DB:     db,
		Redis:  rdb,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down http server", zap.Duration("timeout", a.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
	if err := a.DB.Close(); err != nil {
		a.logger.Warn("db close failed", zap.Error(err))
	}
}

// healthz reports whether the stores checkout depends on are reachable.
func healthz(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			status["database"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}
