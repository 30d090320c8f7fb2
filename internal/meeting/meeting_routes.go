package meeting

import (
	"go-perf/internal/authz"
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	meetings := r.Group("/meetings")
	meetings.Use(middleware.AuthMiddleware())
	{
		meetings.GET("/mine", handler.Mine)
		meetings.GET("/managed",
			middleware.RequireRoles(authz.RoleFounder, authz.RoleL1Manager, authz.RoleL2Manager, authz.RoleL3Manager),
			handler.Managed)
		meetings.PATCH("/:id/status",
			middleware.RequireRoles(authz.RoleFounder, authz.RoleL1Manager, authz.RoleL2Manager, authz.RoleL3Manager),
			handler.UpdateStatus)
	}
}
