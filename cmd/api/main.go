package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/internal/analytics"
	"github.com/roadpulse/roadpulse/internal/geolocate"
	"github.com/roadpulse/roadpulse/internal/insights"
	"github.com/roadpulse/roadpulse/internal/maps"
	"github.com/roadpulse/roadpulse/internal/navigation"
	"github.com/roadpulse/roadpulse/internal/preferences"
	"github.com/roadpulse/roadpulse/internal/routes"
	"github.com/roadpulse/roadpulse/internal/traffic"
	"github.com/roadpulse/roadpulse/pkg/config"
	"github.com/roadpulse/roadpulse/pkg/database"
	appErrors "github.com/roadpulse/roadpulse/pkg/errors"
	"github.com/roadpulse/roadpulse/pkg/eventbus"
	"github.com/roadpulse/roadpulse/pkg/logger"
	"github.com/roadpulse/roadpulse/pkg/middleware"
	"github.com/roadpulse/roadpulse/pkg/redis"
	"github.com/roadpulse/roadpulse/pkg/resilience"
)

const serviceName = "roadpulse-api"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := appErrors.InitSentry(appErrors.DefaultSentryConfig()); err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer appErrors.Flush(2 * time.Second)

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer database.Close(pool)

	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	cache, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer cache.Close()

	var bus *eventbus.Bus
	if cfg.NATS.Enabled {
		bus, err = eventbus.Connect(cfg.NATS.URL, serviceName)
		if err != nil {
			logger.Warn("nats connect failed, events disabled", zap.Error(err))
		} else {
			defer bus.Close()
		}
	}

	// One provider instance for the whole process. Without an API key the
	// maps service reports not-ready and the traffic pipeline simulates.
	var provider maps.MapsProvider
	if cfg.Maps.APIKey != "" {
		provider = maps.NewGoogleMapsProvider(maps.ProviderConfig{
			APIKey:  cfg.Maps.APIKey,
			BaseURL: cfg.Maps.BaseURL,
			Timeout: cfg.Maps.TimeoutSeconds,
		})
	} else {
		logger.Warn("no maps API key configured, live traffic disabled")
	}

	mapsService := maps.NewService(provider, newBreaker(cfg, "maps"))

	trafficRepo := traffic.NewRepository(pool)
	trafficService := traffic.NewService(mapsService, trafficRepo, bus,
		time.Duration(cfg.Traffic.FetchTimeoutSeconds)*time.Second)

	analyticsService := analytics.NewService(analytics.NewRepository(pool))

	routesService := routes.NewService(mapsService, routes.NewRepository(pool), analyticsService, bus)

	insightsService := insights.NewService(
		insights.NewClient(cfg.Insights), newBreaker(cfg, "insights"))

	geolocateService := geolocate.NewService(cache, mapsService)

	preferencesService := preferences.NewService(preferences.NewRepository(pool), bus)

	router := buildRouter(cfg, pool, mapsService,
		trafficService, routesService, insightsService,
		geolocateService, preferencesService, analyticsService)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func newBreaker(cfg *config.Config, name string) *resilience.CircuitBreaker {
	cb := cfg.Resilience.CircuitBreaker
	if !cb.Enabled {
		return nil
	}
	return resilience.NewCircuitBreaker(resilience.BuildSettings(
		name, cb.IntervalSeconds, cb.TimeoutSeconds,
		cb.FailureThreshold, cb.SuccessThreshold), nil)
}

func buildRouter(
	cfg *config.Config,
	pool *pgxpool.Pool,
	mapsService *maps.Service,
	trafficService *traffic.Service,
	routesService *routes.Service,
	insightsService *insights.Service,
	geolocateService *geolocate.Service,
	preferencesService *preferences.Service,
	analyticsService *analytics.Service,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appErrors.GinMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.Server.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		checks := gin.H{}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			status = "degraded"
			checks["postgres"] = err.Error()
		} else {
			checks["postgres"] = "ok"
		}
		checks["maps"] = mapsService.Ready()

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "checks": checks})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.OptionalAuth(cfg.JWT.Secret))

	authed := router.Group("/api/v1")
	authed.Use(middleware.Auth(cfg.JWT.Secret))

	traffic.NewHandler(trafficService).RegisterRoutes(api)
	routes.NewHandler(routesService).RegisterRoutes(api, authed)
	insights.NewHandler(insightsService, trafficService).RegisterRoutes(api)
	geolocate.NewHandler(geolocateService).RegisterRoutes(api)
	navigation.NewHandler().RegisterRoutes(api)
	preferences.NewHandler(preferencesService).RegisterRoutes(authed)
	analytics.NewHandler(analyticsService).RegisterRoutes(api, authed)

	return router
}
