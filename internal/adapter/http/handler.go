// Package http provides the HTTP handler layer for the weather aggregation
// API. It handles request parsing, validation, response formatting, and
// error mapping.
package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/weathergate/weather-aggregation-service/internal/adapter/http/response"
	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
	"github.com/weathergate/weather-aggregation-service/internal/usecase"
)

// WeatherHandler handles HTTP requests for weather-related endpoints.
type WeatherHandler struct {
	resolver usecase.WeatherResolver
	store    cache.Cache
}

// NewWeatherHandler creates a new WeatherHandler with the given resolver and
// cache store.
func NewWeatherHandler(resolver usecase.WeatherResolver, store cache.Cache) *WeatherHandler {
	return &WeatherHandler{
		resolver: resolver,
		store:    store,
	}
}

// BulkWeather handles POST /api/v1/weather/bulk
//
// @Summary Resolve weather for a batch of cities
// @Description Resolves each city independently; per-item failures never fail the batch
// @Tags weather
// @Accept json
// @Produce json
// @Param request body BulkWeatherRequest true "Batch of city requests"
// @Success 200 {object} response.Response{data=BulkWeatherResponseDTO}
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/weather/bulk [post]
func (h *WeatherHandler) BulkWeather(c echo.Context) error {
	var req BulkWeatherRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.resolver.Execute(c.Request().Context(), req.Cities)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, response.Success(ToBulkWeatherResponseDTO(result)))
}

// CacheStats handles GET /api/v1/cache/stats
//
// @Summary Inspect the resolution cache
// @Tags cache
// @Produce json
// @Success 200 {object} response.Response{data=CacheStatsDTO}
// @Failure 500 {object} response.ErrorDetail
// @Router /api/v1/cache/stats [get]
func (h *WeatherHandler) CacheStats(c echo.Context) error {
	stats, err := h.store.Stats(c.Request().Context())
	if err != nil {
		return response.InternalServerErrorWithMessage(c, err.Error())
	}
	return response.OK(c, response.Success(ToCacheStatsDTO(stats)))
}

// CacheClear handles DELETE /api/v1/cache
//
// @Summary Invalidate all cached resolutions
// @Tags cache
// @Produce json
// @Success 200 {object} response.Response{data=CacheClearedDTO}
// @Failure 500 {object} response.ErrorDetail
// @Router /api/v1/cache [delete]
func (h *WeatherHandler) CacheClear(c echo.Context) error {
	if err := h.store.Clear(c.Request().Context()); err != nil {
		return response.InternalServerErrorWithMessage(c, err.Error())
	}
	return response.OK(c, response.Success(&CacheClearedDTO{Cleared: true}))
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *WeatherHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps resolver errors to appropriate HTTP responses. Per-item
// failures are carried inside the batch result; only whole-batch failures
// reach this point.
func (h *WeatherHandler) handleError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrEmptyBatch) || errors.Is(err, domain.ErrBatchTooLarge) {
		return response.ValidationErrorWithMessage(c, err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	return response.InternalServerError(c)
}

// Health handles GET /health
// Simple health check endpoint.
func (h *WeatherHandler) Health(c echo.Context) error {
	return response.Health(c)
}
