package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/barberbook/barber-booking-backend/internal/api"
	"github.com/barberbook/barber-booking-backend/internal/appointment"
	"github.com/barberbook/barber-booking-backend/internal/catalog"
	"github.com/barberbook/barber-booking-backend/internal/pkg/metrics"
	"github.com/barberbook/barber-booking-backend/internal/provider"
	"github.com/barberbook/barber-booking-backend/internal/schedule"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction     bool
	ProdOrigins      string
	DBPool           *pgxpool.Pool
	RedisClient      *redis.Client // nil disables the schedule cache
	Logger           *zap.Logger
	SlotGranularity  time.Duration
	ScheduleCacheTTL time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router  *gin.Engine
	Metrics *metrics.Metrics
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	m := metrics.New()

	// Provider Module
	provRepo := provider.NewPgxRepository(cfg.DBPool)
	provService := provider.NewService(provRepo)

	// Catalog Module
	catRepo := catalog.NewPgxRepository(cfg.DBPool)
	catManager := catalog.NewManager(catRepo)

	// Schedule Module
	var schedCache schedule.Cache
	if cfg.RedisClient != nil {
		schedCache = schedule.NewRedisCache(cfg.RedisClient, cfg.ScheduleCacheTTL, cfg.Logger, m)
	} else {
		schedCache = schedule.NewNoopCache()
	}
	schedRepo := schedule.NewPgxRepository(cfg.DBPool)
	schedService := schedule.NewService(schedRepo, schedCache, provService)

	// Appointment Module (availability calculator + booking transactor)
	apptRepo := appointment.NewPgxRepository(cfg.DBPool)
	apptService := appointment.NewService(apptRepo, provService, catManager, schedService, cfg.SlotGranularity, m)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             cfg.Logger,
		Metrics:            m,
		ProviderService:    provService,
		CatalogManager:     catManager,
		ScheduleService:    schedService,
		AppointmentService: apptService,
	})

	return &Container{
		Router:  router,
		Metrics: m,
	}
}
