package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthtrack-server/internal/config"
	"healthtrack-server/internal/directory"
	"healthtrack-server/internal/handlers"
	"healthtrack-server/internal/logging"
	"healthtrack-server/internal/middleware"
	"healthtrack-server/internal/models"
	"healthtrack-server/internal/scheduling"
)

// Services are the domain services the routes delegate to.
type Services struct {
	Scheduling *scheduling.Service
	Directory  *directory.Service
}

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(cfg *config.Config, svc Services, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.GinLogger(log))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	SetupRoutes(router, cfg, svc, log)
	return router
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, cfg *config.Config, svc Services, log logrus.FieldLogger) {
	expose := !cfg.IsProduction()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Directory, cfg, log)
	userHandler := handlers.NewUserHandler(svc.Directory, log, expose)
	patientHandler := handlers.NewPatientHandler(svc.Directory, log, expose)
	appointmentHandler := handlers.NewAppointmentHandler(svc.Scheduling, log, expose)

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/professionals", userHandler.GetProfessionals)
			userRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), userHandler.CreateUser)
		}

		// Patient records are staff-only
		patientRoutes := private.Group("/patients")
		patientRoutes.Use(middleware.RequireProfessionalOrAdmin())
		{
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/professional/:professionalId", patientHandler.GetProfessionalPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
		}

		// Appointment routes. Visibility is scoped per caller inside the handler.
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/patient/:patientId", appointmentHandler.GetPatientAppointments)
			appointmentRoutes.GET("/professional/:professionalId", appointmentHandler.GetProfessionalAppointments)
			appointmentRoutes.GET("/date/:date", appointmentHandler.GetAppointmentsByDate)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.DELETE("/:id", middleware.RequireProfessionalOrAdmin(), appointmentHandler.DeleteAppointment)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
