package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barberbook/barber-booking-backend/internal/appointment"
	apptHttp "github.com/barberbook/barber-booking-backend/internal/appointment/http"
	"github.com/barberbook/barber-booking-backend/internal/catalog"
	catHttp "github.com/barberbook/barber-booking-backend/internal/catalog/http"
	"github.com/barberbook/barber-booking-backend/internal/pkg/logger"
	"github.com/barberbook/barber-booking-backend/internal/pkg/metrics"
	"github.com/barberbook/barber-booking-backend/internal/provider"
	provHttp "github.com/barberbook/barber-booking-backend/internal/provider/http"
	"github.com/barberbook/barber-booking-backend/internal/schedule"
	schedHttp "github.com/barberbook/barber-booking-backend/internal/schedule/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	Logger             *zap.Logger
	Metrics            *metrics.Metrics
	ProviderService    provider.Service
	CatalogManager     catalog.Manager
	ScheduleService    schedule.Service
	AppointmentService appointment.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (logging, recovery, CORS, metrics) and registers
// routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.RequestLogger(cfg.Logger), gin.Recovery())
	r.Use(cfg.Metrics.Middleware())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Initialize HTTP handlers for each module (injecting service dependencies).
	provHandler := provHttp.NewHandler(cfg.ProviderService)
	catHandler := catHttp.NewHandler(cfg.CatalogManager)
	schedHandler := schedHttp.NewHandler(cfg.ScheduleService)
	apptHandler := apptHttp.NewHandler(cfg.AppointmentService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		provHttp.RegisterRoutes(v1, provHandler)
		catHttp.RegisterRoutes(v1, catHandler)
		schedHttp.RegisterRoutes(v1, schedHandler)
		apptHttp.RegisterRoutes(v1, apptHandler)
	}

	r.GET("/metrics", cfg.Metrics.Handler())

	return r
}
