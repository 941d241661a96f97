package app

import (
	"database/sql"

	"go-retail-api/internal/cart"
	"go-retail-api/internal/catalog"
	"go-retail-api/internal/checkout"
	"go-retail-api/internal/config"
	"go-retail-api/internal/middleware"
	"go-retail-api/internal/order"
	"go-retail-api/internal/outbox"
	"go-retail-api/internal/pkg/metrics"
	"go-retail-api/internal/shared/database/dbgen"
	"go-retail-api/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deps struct {
	DB     *sql.DB
	Redis  *redis.Client
	Config config.Config
	Logger *zap.Logger
}

func registerModules(router *gin.Engine, d Deps) {
	queries := dbgen.New(d.DB)

	// --- Repositories ---
	catalogRepo := catalog.NewRepository(queries)
	cartRepo := cart.NewRepository(queries)
	orderRepo := order.NewRepository(queries)
	outboxRepo := outbox.NewRepository(queries)

	// --- Stores ---
	sessions := cart.NewRedisSessionStore(d.Redis, d.Config.GuestCartTTL)
	persistent := cart.NewPersistentCart(d.DB, cartRepo, d.Logger)
	sagas := checkout.NewRedisStore(d.Redis, d.Config.CheckoutTTL)

	// --- Services ---
	catalogService := catalog.NewService(catalogRepo, d.Logger)
	validator := stock.NewValidator(catalogService)
	cartService := cart.NewService(cart.Deps{
		Sessions:   sessions,
		Persistent: persistent,
		Catalog:    catalogService,
		Validator:  validator,
		Logger:     d.Logger,
	})
	orderService := order.NewService(order.Deps{
		DB:          d.DB,
		Repo:        orderRepo,
		CatalogRepo: catalogRepo,
		CartRepo:    cartRepo,
		OutboxRepo:  outboxRepo,
		Validator:   validator,
		Logger:      d.Logger,
	})
	checkoutService := checkout.NewService(checkout.Deps{
		Store:     sagas,
		Cart:      cartService,
		Orders:    orderService,
		Validator: validator,
		Logger:    d.Logger,
	})

	// --- Handlers ---
	catalogHandler := catalog.NewHandler(catalogService)
	cartHandler := cart.NewHandler(cartService, d.Logger)
	orderHandler := order.NewHandler(orderService, d.Logger)
	checkoutHandler := checkout.NewHandler(checkoutService, d.Redis, d.Logger)

	// --- Ops ---
	router.GET("/healthz", healthz(d.DB, d.Redis))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.Identity(middleware.IdentityConfig{
			JWTSecret:    d.Config.JWTSecret,
			SessionTTL:   d.Config.GuestCartTTL,
			SecureCookie: !d.Config.IsDevelopment(),
		}),
		cart.MergeGuestCart(cart.NewMerger(sessions, persistent, d.Logger)),
	)
	{
		catalog.RegisterRoutes(api, catalogHandler)
		cart.RegisterRoutes(api, cartHandler)
		checkout.RegisterRoutes(api, checkoutHandler, d.Redis)
		order.RegisterRoutes(api, orderHandler)
	}
}
