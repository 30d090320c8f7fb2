package cycle

import (
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	cycles := r.Group("/review-cycles")
	cycles.Use(middleware.AuthMiddleware())
	{
		cycles.GET("/active", handler.GetActive)
		cycles.GET("", handler.GetAll)
		cycles.POST("", handler.Create)
		cycles.POST("/:id/activate", handler.Activate)
		cycles.POST("/:id/deactivate", handler.Deactivate)
	}
}
