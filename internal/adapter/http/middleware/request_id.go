// Package middleware provides HTTP middleware for cross-cutting concerns:
// request correlation, request logging, and panic recovery.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// RequestIDHeader is the HTTP header used for request correlation.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the echo context key for the request ID.
const requestIDKey = "request_id"

// RequestID returns middleware that generates or propagates request IDs.
// An incoming X-Request-ID header wins; otherwise a new UUID is generated.
// The ID is stored on the echo context, threaded into the request context so
// the resolution pipeline can correlate batch logs with their request, and
// echoed in the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.New().String()
			}

			c.Set(requestIDKey, reqID)

			ctx := logger.ContextWithRequestID(c.Request().Context(), reqID)
			c.SetRequest(c.Request().WithContext(ctx))

			c.Response().Header().Set(RequestIDHeader, reqID)

			return next(c)
		}
	}
}

// GetRequestID retrieves the request ID from the echo context.
// Returns an empty string if no request ID is set.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}
