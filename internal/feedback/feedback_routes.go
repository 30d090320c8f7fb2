package feedback

import (
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	feedback := r.Group("/reviews/:id/feedback")
	feedback.Use(middleware.AuthMiddleware())
	{
		feedback.POST("", middleware.RateLimitByUser(1, 3), handler.Submit)
		feedback.GET("", handler.ListFor)
	}

	mine := r.Group("/feedback")
	mine.Use(middleware.AuthMiddleware())
	{
		mine.GET("/given", handler.Mine)
	}
}
