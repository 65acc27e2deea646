// Package http provides the HTTP handler layer for the weather aggregation
// API.
package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all weather API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *WeatherHandler) {
	// Health check endpoint (no version prefix)
	e.GET("/health", h.Health)

	// API v1 group
	api := e.Group("/api/v1")

	// Weather group
	weather := api.Group("/weather")
	weather.POST("/bulk", h.BulkWeather)

	// Cache administration
	cacheGroup := api.Group("/cache")
	cacheGroup.GET("/stats", h.CacheStats)
	cacheGroup.DELETE("", h.CacheClear)
}

// RegisterRoutesWithMiddleware registers routes with custom middleware.
// This allows for endpoint-specific middleware configuration.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *WeatherHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix, no middleware)
	e.GET("/health", h.Health)

	// API v1 group with middleware
	api := e.Group("/api/v1", middleware...)

	weather := api.Group("/weather")
	weather.POST("/bulk", h.BulkWeather)

	cacheGroup := api.Group("/cache")
	cacheGroup.GET("/stats", h.CacheStats)
	cacheGroup.DELETE("", h.CacheClear)
}
