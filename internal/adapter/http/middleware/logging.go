package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// healthPath is logged at debug level so liveness probes do not drown out
// resolution traffic in the request log.
const healthPath = "/health"

// RequestLogger returns middleware that logs each request on completion,
// leveled by response status and correlated by request ID.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let Echo's error handler render the error first so the
				// logged status is the one the client saw.
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			status := res.Status

			scoped := log.WithRequestID(GetRequestID(c))

			var event *zerolog.Event
			switch {
			case status >= 500:
				event = scoped.Error()
			case status >= 400:
				event = scoped.Warn()
			case req.URL.Path == healthPath:
				event = scoped.Debug()
			default:
				event = scoped.Info()
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("bytes_out", res.Size).
				Str("client_ip", c.RealIP()).
				Msg("Request completed")

			// The error was already handled via c.Error.
			return nil
		}
	}
}
