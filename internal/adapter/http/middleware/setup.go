package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// Setup registers all middleware on the Echo instance in the correct order.
// The order is important:
//  1. RequestID - first, so every later log line carries the correlation ID
//  2. RequestLogger - second, logs all requests with the request ID
//  3. Recover - third, catches handler panics and returns 500
//
// This function should be called before registering routes.
func Setup(e *echo.Echo, log *logger.Logger) {
	e.Use(RequestID())
	e.Use(RequestLogger(log))
	e.Use(Recover(log))
}

// SetupWithConfig registers middleware with custom recovery configuration.
func SetupWithConfig(e *echo.Echo, log *logger.Logger, recoveryConfig RecoveryConfig) {
	e.Use(RequestID())
	e.Use(RequestLogger(log))
	e.Use(RecoverWithConfig(log, recoveryConfig))
}

// Chain returns all middleware as a slice for use with route groups.
// Useful when only specific route groups should carry the full chain.
func Chain(log *logger.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		RequestID(),
		RequestLogger(log),
		Recover(log),
	}
}
