package review

import (
	"go-perf/internal/authz"
	"go-perf/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, redisClient *redis.Client) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.GET("/mine", handler.Mine)
		reviews.GET("/pending-approvals",
			middleware.RequireRoles(authz.RoleFounder, authz.RoleL1Manager, authz.RoleL2Manager, authz.RoleL3Manager),
			handler.PendingApprovals)
		reviews.GET("/managed",
			middleware.RequireRoles(authz.RoleFounder, authz.RoleL1Manager, authz.RoleL2Manager, authz.RoleL3Manager),
			handler.Managed)
		reviews.GET("/:id", handler.GetByID)

		reviews.POST("",
			middleware.Idempotency(redisClient),
			handler.Create)
		reviews.POST("/self-assessment",
			middleware.RateLimitByUser(1, 3),
			handler.SubmitSelfAssessment)
		reviews.POST("/:id/advance", handler.Advance)
		reviews.PUT("/:id/manager-comments", handler.SetManagerComments)
		reviews.POST("/:id/schedule-meeting", handler.ScheduleMeeting)
		reviews.POST("/:id/finalize",
			middleware.RequireRoles(authz.RoleL2Manager, authz.RoleFounder),
			handler.Finalize)
	}
}
