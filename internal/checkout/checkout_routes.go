package checkout

import (
	"go-retail-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the saga endpoints. Checkout is for signed-in users
// only; a guest cart is merged into the user cart at sign-in.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	checkout := r.Group("/checkout")
	checkout.Use(middleware.RequireUser())
	{
		checkout.GET("", handler.Current)

		steps := checkout.Group("", middleware.RateLimitByUser(5, 10))
		{
			steps.POST("/start", handler.Start)
			steps.POST("/payment", handler.SetPayment)
			steps.POST("/validate", handler.Validate)
			steps.POST("/cancel", handler.Cancel)
		}

		checkout.POST("/commit",
			middleware.RateLimitByUser(1, 3),
			middleware.Idempotency(rdb),
			handler.Commit,
		)
	}
}
