package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/config"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/handler/middleware"
	v1 "github.com/gayatrijangid/panchakarma-booking-system/internal/handler/v1"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/service"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/auth"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/metrics"
)

type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTManager     *auth.JWTManager
	Collector      *metrics.Collector
	AuthSvc        *service.AuthService
	TherapySvc     *service.TherapyService
	AppointmentSvc *service.AppointmentService
}

// NewRouter wires the HTTP surface. Auth and role checks are applied per
// route group; /healthz and /metrics stay open for probes and scrapers.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Collector))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := v1.NewAuthHandler(deps.AuthSvc)
	therapyHandler := v1.NewTherapyHandler(deps.TherapySvc)
	appointmentHandler := v1.NewAppointmentHandler(deps.AppointmentSvc)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		authed := api.Group("")
		authed.Use(middleware.Auth(deps.JWTManager))
		{
			authed.GET("/therapies", therapyHandler.List)
			authed.GET("/therapies/:id", therapyHandler.Get)

			authed.GET("/slots/available", appointmentHandler.GetAvailableSlots)

			appts := authed.Group("/appointments")
			{
				appts.POST("", appointmentHandler.Book)
				appts.GET("", middleware.RequireRole(domain.RoleAdmin, domain.RoleDoctor), appointmentHandler.List)
				appts.GET("/my", appointmentHandler.ListMine)
				appts.GET("/:id", appointmentHandler.Get)
				appts.PUT("/:id", appointmentHandler.Reschedule)
				appts.PUT("/:id/status", appointmentHandler.UpdateStatus)
				appts.PUT("/:id/assign-doctor", middleware.RequireRole(domain.RoleAdmin), appointmentHandler.AssignDoctor)
				appts.DELETE("/:id", appointmentHandler.Cancel)
			}
		}
	}

	return r
}
