package activity

import (
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	activities := r.Group("/activities")
	activities.Use(middleware.AuthMiddleware())
	{
		activities.GET("/recent", handler.Recent)
		activities.GET("/mine", handler.Mine)
	}
}
