// Package main is the entry point for the weather aggregation service.
//
//	@title						Weather Aggregation API
//	@version					1.0.0
//	@description				A weather-data aggregation service that resolves batches of city requests against an upstream provider with caching and failure isolation.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/weathergate/weather-aggregation-service/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/weathergate/weather-aggregation-service/docs"

	// Application layers
	weatherhttp "github.com/weathergate/weather-aggregation-service/internal/adapter/http"
	"github.com/weathergate/weather-aggregation-service/internal/adapter/http/middleware"
	"github.com/weathergate/weather-aggregation-service/internal/adapter/provider/openweather"
	"github.com/weathergate/weather-aggregation-service/internal/config"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/breaker"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
	"github.com/weathergate/weather-aggregation-service/internal/scheduler"
	"github.com/weathergate/weather-aggregation-service/internal/usecase"
)

const (
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger with config
	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "weather-aggregation",
	})

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("cache_strategy", cfg.Cache.Strategy).
		Msg("Configuration loaded")

	// Select the cache backend once per process; the resolver never knows
	// which one is active.
	store, err := buildCache(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}

	// Circuit gates, one per configured service name
	gates := breaker.NewRegistry(cfg.Breaker.ToBreaker(), log)

	// Weather provider client
	provider := openweather.NewClient(cfg.Provider, log)

	// Bulk resolution pipeline
	resolver, err := usecase.NewBulkWeatherResolver(provider, store, gates, &usecase.Config{
		CacheTTL: cfg.Cache.TTL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize resolver")
	}

	// Periodic cache maintenance
	maintenance := scheduler.New(store, cfg.Cache.StatsInterval, log)
	if err := maintenance.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start cache maintenance scheduler")
	}
	defer maintenance.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Setup middleware
	middleware.Setup(e, log)

	// Setup routes
	handler := weatherhttp.NewWeatherHandler(resolver, store)
	weatherhttp.RegisterRoutes(e, handler)

	// Swagger documentation endpoint
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	gracefulShutdown(e, store, log)
}

// buildCache constructs the configured cache backend.
func buildCache(cfg *config.Config, log *logger.Logger) (cache.Cache, error) {
	switch cfg.Cache.Strategy {
	case config.CacheStrategyRedis:
		return cache.NewRedisCache(cfg.Cache.Redis, log)
	default:
		return cache.NewMemoryCache(), nil
	}
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, store cache.Cache, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache backend")
		}
	}

	log.Info().Msg("Server stopped")
}
