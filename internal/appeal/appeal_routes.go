package appeal

import (
	"go-perf/internal/authz"
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	appeals := r.Group("/appeals")
	appeals.Use(middleware.AuthMiddleware())
	{
		appeals.GET("/mine", handler.Mine)
		appeals.GET("/pending",
			middleware.RequireRoles(authz.RoleL2Manager, authz.RoleFounder),
			handler.Pending)

		appeals.POST("", middleware.RateLimitByUser(0.5, 2), handler.File)
		appeals.POST("/:id/resolve",
			middleware.RequireRoles(authz.RoleL2Manager, authz.RoleFounder),
			handler.Resolve)
		appeals.POST("/:id/complete",
			middleware.RequireRoles(authz.RoleL2Manager, authz.RoleFounder),
			handler.Complete)
	}
}
