package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-server/internal/access"
	"clinic-server/internal/appointments"
	"clinic-server/internal/audit"
	"clinic-server/internal/config"
	"clinic-server/internal/handlers"
	"clinic-server/internal/middleware"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger zerolog.Logger) {
	// Shared collaborators
	recorder := audit.NewDBRecorder(db, logger)
	store := appointments.NewGormStore(db)
	appointmentService := appointments.NewService(store, recorder, logger, cfg.Buffer())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(db, recorder)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	auditHandler := handlers.NewAuditHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		authRoutes.Use(middleware.RateLimit(cfg.AuthRatePerMinute))
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	private.Use(middleware.WriteRateLimit(cfg.WriteRatePerMinute))
	{
		private.GET("/auth/me", authHandler.Me)

		// Appointment routes. Role sets come from the access-policy table; the
		// lifecycle service re-checks them, so the route guard is the fast path.
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RequireOperation(access.OpAppointmentCreate), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", middleware.RequireOperation(access.OpAppointmentList), appointmentHandler.ListAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PUT("/:id", middleware.RequireOperation(access.OpAppointmentUpdate), appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("/:id", middleware.RequireOperation(access.OpAppointmentDelete), appointmentHandler.DeleteAppointment)
			appointmentRoutes.POST("/:id/restore", middleware.RequireOperation(access.OpAppointmentRestore), appointmentHandler.RestoreAppointment)
		}

		// Patient routes
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", middleware.RequireOperation(access.OpPatientCreate), patientHandler.CreatePatient)
			patientRoutes.GET("", middleware.RequireOperation(access.OpPatientList), patientHandler.ListPatients)
			patientRoutes.GET("/:id", middleware.RequireOperation(access.OpPatientGet), patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", middleware.RequireOperation(access.OpPatientUpdate), patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", middleware.RequireOperation(access.OpPatientDelete), patientHandler.DeletePatient)
			patientRoutes.POST("/:id/restore", middleware.RequireOperation(access.OpPatientRestore), patientHandler.RestorePatient)
		}

		// Admin endpoints
		private.GET("/users", middleware.RequireOperation(access.OpUserList), userHandler.GetUsers)
		private.GET("/audit", middleware.RequireOperation(access.OpAuditList), auditHandler.GetAuditLogs)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
