package catalog

import (
	"go-retail-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	stock := r.Group("/stock")
	{
		// Polled by the quantity picker on every keystroke, so keep it loose.
		stock.GET("/check",
			middleware.RateLimitByIP(10, 20),
			handler.CheckStock,
		)
	}
}
