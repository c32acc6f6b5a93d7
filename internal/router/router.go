package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jobtrail-dev/jobtrail/internal/handlers"
	"github.com/jobtrail-dev/jobtrail/internal/middleware"
	"github.com/jobtrail-dev/jobtrail/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateProfile)
			auth.POST("/password", middleware.AuthMiddleware(), handlers.ChangePassword)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteAccount)
		}

		api.GET("/dashboard", middleware.AuthMiddleware(), handlers.GetDashboard)

		applications := api.Group("/applications", middleware.AuthMiddleware())
		{
			applications.GET("", handlers.ListApplications)
			applications.POST("", handlers.CreateApplication)
			applications.PUT("/:application_id", handlers.UpdateApplication)
			applications.DELETE("/:application_id", handlers.DeleteApplication)

			applications.POST("/:application_id/steps", handlers.AppendStep)
			applications.POST("/:application_id/finalize", handlers.FinalizeApplication)
			applications.PUT("/:application_id/steps/:step_id", handlers.UpdateStep)
			applications.DELETE("/:application_id/steps/:step_id", handlers.DeleteStep)
		}

		platforms := api.Group("/platforms", middleware.AuthMiddleware())
		{
			platforms.GET("", handlers.ListPlatforms)
			platforms.POST("", handlers.CreatePlatform)
			platforms.PUT("/:platform_id", handlers.UpdatePlatform)
			platforms.DELETE("/:platform_id", handlers.DeletePlatform)
			platforms.GET("/:platform_id/applications/count", handlers.CountPlatformApplications)
		}

		settings := api.Group("/settings", middleware.AuthMiddleware())
		{
			settings.GET("/steps", handlers.ListStepDefinitions)
			settings.POST("/steps", handlers.CreateStepDefinition)
			settings.PUT("/steps/:definition_id", handlers.UpdateStepDefinition)
			settings.DELETE("/steps/:definition_id", handlers.DeleteStepDefinition)
			settings.GET("/steps/:definition_id/applications/count", handlers.CountStepDefinitionApplications)

			settings.GET("/feedbacks", handlers.ListFeedbackDefinitions)
			settings.POST("/feedbacks", handlers.CreateFeedbackDefinition)
			settings.PUT("/feedbacks/:definition_id", handlers.UpdateFeedbackDefinition)
			settings.DELETE("/feedbacks/:definition_id", handlers.DeleteFeedbackDefinition)
			settings.GET("/feedbacks/:definition_id/applications/count", handlers.CountFeedbackDefinitionApplications)
		}
	}

	return r
}
