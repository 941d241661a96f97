package order

import (
	"go-retail-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireUser())
	orders.Use(middleware.RateLimitByUser(5, 10))
	{
		orders.GET("", handler.List)
		orders.GET("/:id", handler.Detail)
	}

	adminOrders := r.Group("/admin/orders")
	adminOrders.Use(middleware.RoleMiddleware("ADMIN"))
	adminOrders.Use(middleware.RateLimitByIP(10, 20))
	{
		adminOrders.PATCH("/:id/status",
			middleware.RateLimitByUser(2, 5),
			handler.UpdateStatusByAdmin,
		)
	}
}
