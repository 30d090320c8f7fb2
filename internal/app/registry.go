package app

import (
	"database/sql"

	"go-perf/internal/activity"
	"go-perf/internal/appeal"
	"go-perf/internal/auth"
	"go-perf/internal/cycle"
	"go-perf/internal/dashboard"
	"go-perf/internal/employee"
	"go-perf/internal/feedback"
	"go-perf/internal/meeting"
	"go-perf/internal/messaging/kafka"
	"go-perf/internal/review"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	activityRepo := activity.NewRepository(gormDB)
	appealRepo := appeal.NewRepository(gormDB)
	cycleRepo := cycle.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	feedbackRepo := feedback.NewRepository(gormDB)
	meetingRepo := meeting.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	reviewRepo := review.NewRepository(gormDB)

	// --- Services ---
	activityService := activity.NewService(activityRepo)
	authService := auth.NewService(employeeRepo)
	cycleService := cycle.NewService(db, cycleRepo, employeeRepo)
	employeeService := employee.NewService(employeeRepo)
	feedbackService := feedback.NewService(db, feedbackRepo, reviewRepo, employeeRepo, activityService)
	meetingService := meeting.NewService(meetingRepo)
	reviewService := review.NewService(
		db, reviewRepo, employeeRepo, cycleRepo, meetingRepo,
		feedbackService, activityService, outboxRepo,
	)
	appealService := appeal.NewService(db, appealRepo, reviewRepo, employeeRepo, activityService, outboxRepo)
	dashboardService := dashboard.NewService(dashboardRepo, cycleRepo, reviewRepo, appealRepo, rdb)

	// --- Handlers ---
	activityHandler := activity.NewHandler(activityService)
	appealHandler := appeal.NewHandler(appealService)
	authHandler := auth.NewHandler(authService)
	cycleHandler := cycle.NewHandler(cycleService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	employeeHandler := employee.NewHandler(employeeService)
	feedbackHandler := feedback.NewHandler(feedbackService)
	meetingHandler := meeting.NewHandler(meetingService)
	reviewHandler := review.NewHandlerWithRedis(reviewService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		activity.RegisterRoutes(api, activityHandler)
		appeal.RegisterRoutes(api, appealHandler)
		auth.RegisterRoutes(api, authHandler)
		cycle.RegisterRoutes(api, cycleHandler)
		dashboard.RegisterRoutes(api, dashboardHandler)
		employee.RegisterRoutes(api, employeeHandler)
		feedback.RegisterRoutes(api, feedbackHandler)
		meeting.RegisterRoutes(api, meetingHandler)
		review.RegisterRoutes(api, reviewHandler, rdb)
	}

	return nil
}
