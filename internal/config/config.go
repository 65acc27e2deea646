// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/weathergate/weather-aggregation-service/internal/adapter/provider/openweather"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/breaker"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
)

// Cache strategies selectable via CACHE_STRATEGY.
const (
	CacheStrategyMemory = "memory"
	CacheStrategyRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Provider openweather.Config
	Breaker  BreakerConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
}

// CacheConfig holds cache backend selection and tuning. The strategy is a
// process-wide decision made once at startup; the resolver never knows which
// backend is active.
type CacheConfig struct {
	Strategy      string        `env:"CACHE_STRATEGY" envDefault:"memory"`
	TTL           time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	StatsInterval time.Duration `env:"CACHE_STATS_INTERVAL" envDefault:"5m"`
	Redis         cache.RedisConfig
}

// BreakerConfig holds circuit gate tuning.
type BreakerConfig struct {
	Services         []string      `env:"BREAKER_SERVICES" envDefault:"weatherProvider" envSeparator:","`
	Window           time.Duration `env:"BREAKER_WINDOW" envDefault:"10s"`
	ResetTimeout     time.Duration `env:"BREAKER_RESET_TIMEOUT" envDefault:"10s"`
	FailureThreshold float64       `env:"BREAKER_FAILURE_THRESHOLD" envDefault:"0.8"`
	MinRequests      uint32        `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	CallTimeout      time.Duration `env:"BREAKER_CALL_TIMEOUT" envDefault:"4s"`
}

// ToBreaker converts the env-backed settings into the breaker package config.
func (b BreakerConfig) ToBreaker() breaker.Config {
	return breaker.Config{
		Services:         b.Services,
		Window:           b.Window,
		ResetTimeout:     b.ResetTimeout,
		FailureThreshold: b.FailureThreshold,
		MinRequests:      b.MinRequests,
		CallTimeout:      b.CallTimeout,
	}
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	// Validate server port
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	// Validate timeouts are positive
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}

	// Validate cache settings
	if cfg.Cache.Strategy != CacheStrategyMemory && cfg.Cache.Strategy != CacheStrategyRedis {
		return fmt.Errorf("CACHE_STRATEGY must be one of: memory, redis; got %q", cfg.Cache.Strategy)
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if cfg.Cache.StatsInterval <= 0 {
		return fmt.Errorf("CACHE_STATS_INTERVAL must be positive")
	}

	// Validate provider settings
	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("WEATHER_API_KEY is required")
	}
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("WEATHER_API_TIMEOUT must be positive")
	}

	// Validate breaker settings
	if len(cfg.Breaker.Services) == 0 {
		return fmt.Errorf("BREAKER_SERVICES must name at least one service")
	}
	if cfg.Breaker.FailureThreshold <= 0 || cfg.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be in (0, 1], got %v", cfg.Breaker.FailureThreshold)
	}
	if cfg.Breaker.CallTimeout <= 0 {
		return fmt.Errorf("BREAKER_CALL_TIMEOUT must be positive")
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	// Validate app environment
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
