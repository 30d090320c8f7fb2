package employee

import (
	"go-perf/internal/authz"
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/team", handler.Team)
		employees.GET("/:id", handler.GetById)
		employees.GET("/:id/reports", handler.DirectReports)
		employees.GET("", middleware.RequireRoles(authz.RoleFounder, authz.RoleL1Manager, authz.RoleL2Manager), handler.GetAll)
		employees.POST("", middleware.RequireRoles(authz.RoleFounder), handler.Create)
		employees.PUT("/:id", middleware.RequireRoles(authz.RoleFounder, authz.RoleL1Manager), handler.Update)
	}
}
