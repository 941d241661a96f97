package cart

import (
	"go-retail-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects Identity to have run; guests and users share the
// same endpoints.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	carts := r.Group("/cart")
	{
		carts.GET("", handler.Detail)
		carts.GET("/summary", handler.Summary)

		// Quantity pickers fire quickly; allow short bursts per owner.
		mutate := carts.Group("", middleware.RateLimitByUser(5, 10))
		{
			mutate.POST("/add", handler.AddItem)
			mutate.POST("/update", handler.UpdateItem)
			mutate.POST("/remove", handler.RemoveItem)
			mutate.DELETE("", handler.Clear)
		}
	}
}
