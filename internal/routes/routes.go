package routes

import (
	"health-triage-server/internal/agent"
	"health-triage-server/internal/config"
	"health-triage-server/internal/handlers"
	"health-triage-server/internal/middleware"
	"health-triage-server/internal/models"
	"health-triage-server/internal/triage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, questions agent.QuestionSource) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	analysisHandler := handlers.NewAnalysisHandler(db)
	gatherer := triage.NewGatherer(cfg.Triage.MaxQuestions)
	chatHandler := handlers.NewChatHandler(db, gatherer, questions, analysisHandler)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	pharmacyHandler := handlers.NewPharmacyHandler(cfg)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Account management for the current user
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/stats", userHandler.GetUserStats)
			userRoutes.PUT("/password", userHandler.ChangePassword)
			userRoutes.POST("/deactivate", userHandler.DeactivateAccount)
		}

		// Symptom analysis routes
		analysisRoutes := private.Group("/analysis")
		{
			analysisRoutes.POST("", analysisHandler.Analyze)
			analysisRoutes.GET("/history", analysisHandler.GetHistory)
			analysisRoutes.GET("/:id", analysisHandler.GetAnalysis)
			analysisRoutes.POST("/:id/feedback", analysisHandler.SubmitFeedback)
		}

		// Conversational symptom gathering routes
		chatRoutes := private.Group("/chat")
		{
			chatRoutes.POST("/sessions", chatHandler.StartSession)
			chatRoutes.GET("/sessions/:id", chatHandler.GetSession)
			chatRoutes.POST("/sessions/:id/messages", chatHandler.SendMessage)
			chatRoutes.POST("/sessions/:id/analyze", chatHandler.AnalyzeSession)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.BookAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/available-slots", appointmentHandler.GetAvailableSlots)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID) // Authorization inside handler
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)

			// Status changes are admin-only; cancellation above stays open to owners
			appointmentRoutes.PATCH("/:id/status", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.UpdateAppointmentStatus)
		}

		// Pharmacy locator (proxied, so the Overpass endpoint stays server-side)
		private.GET("/pharmacies/nearby", pharmacyHandler.FindNearby)

		// Admin dashboard routes
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin)) // Only Admins
		{
			adminRoutes.GET("/overview", adminHandler.GetOverview)
			adminRoutes.GET("/users", adminHandler.GetUserAnalytics)
			adminRoutes.GET("/analyses", adminHandler.GetAnalysisAnalytics)
			adminRoutes.GET("/reports", adminHandler.GenerateReport)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
