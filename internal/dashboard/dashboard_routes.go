package dashboard

import (
	"go-perf/internal/authz"
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	managerRoles := []authz.Role{
		authz.RoleFounder, authz.RoleL1Manager, authz.RoleL2Manager, authz.RoleL3Manager,
	}

	dash := r.Group("/dashboard")
	dash.Use(middleware.AuthMiddleware())
	{
		dash.GET("/pending-actions", handler.PendingActions)

		dash.GET("/stats", middleware.RequireRoles(managerRoles...), handler.Stats)
		dash.GET("/rating-distribution", middleware.RequireRoles(managerRoles...), handler.RatingDistribution)
		dash.GET("/department-performance", middleware.RequireRoles(managerRoles...), handler.DepartmentPerformance)
	}
}
