package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/activity"
	"github.com/sundial-dev/sundial/internal/auth"
	"github.com/sundial-dev/sundial/internal/handlers"
	"github.com/sundial-dev/sundial/internal/mailer"
	"github.com/sundial-dev/sundial/internal/memberships"
	"github.com/sundial-dev/sundial/internal/middleware"
	"github.com/sundial-dev/sundial/internal/types"
	"gorm.io/gorm"
)

func New(conn *gorm.DB, tokens *auth.TokenManager, mail *mailer.Mailer) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	ledger := memberships.NewLedger(conn)
	recorder := activity.NewRecorder(conn)

	authHandler := handlers.NewAuthHandler(conn, tokens, mail)
	userHandler := handlers.NewUserHandler(conn, recorder)
	projectHandler := handlers.NewProjectHandler(conn, ledger, recorder)
	memberHandler := handlers.NewProjectMemberHandler(ledger, recorder)
	timelogHandler := handlers.NewTimeLogHandler(conn, recorder)
	activityHandler := handlers.NewActivityHandler(recorder)

	requireAuth := middleware.AuthMiddleware(conn, tokens)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		users := api.Group("/users")
		{
			users.GET("", requireAuth, middleware.RequireAdmin(), userHandler.List)
			users.GET("/:id", requireAuth, middleware.RequireSuperAdmin(), userHandler.Get)
			users.POST("", middleware.OptionalAuthMiddleware(conn, tokens), userHandler.Create)
			users.PUT("/:id", requireAuth, middleware.RequireSuperAdmin(), userHandler.Update)
			users.DELETE("/:id", requireAuth, middleware.RequireSuperAdmin(), userHandler.Delete)
		}

		projects := api.Group("/projects", requireAuth)
		{
			projects.GET("/admin", middleware.RequireAdmin(), projectHandler.ListAdmin)
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("", middleware.RequireAdmin(), projectHandler.Create)
			projects.PUT("/:id", middleware.RequireAdmin(), projectHandler.Update)
		}

		members := api.Group("/project_members", requireAuth)
		{
			members.GET("/:projectId", memberHandler.ListByProject)
			members.POST("", middleware.RequireAdmin(), memberHandler.Create)
			members.DELETE("/:id", middleware.RequireAdmin(), memberHandler.Delete)
			members.PUT("/users/:userId/projects", middleware.RequireAdmin(), memberHandler.ReconcileUserProjects)
		}

		timelogs := api.Group("/timelogs", requireAuth)
		{
			timelogs.GET("/my", timelogHandler.My)
			timelogs.GET("/my/project/:projectId", timelogHandler.MyByProject)
			timelogs.POST("", timelogHandler.Create)
			timelogs.PUT("/:id", middleware.RequireAdmin(), timelogHandler.Update)
			timelogs.GET("/admin/project/:projectId", middleware.RequireAdmin(), timelogHandler.AdminByProject)
		}

		api.GET("/activity-logs", requireAuth, middleware.RequireSuperAdmin(), activityHandler.List)
	}

	return r
}
