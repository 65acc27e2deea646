package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/weathergate/weather-aggregation-service/internal/adapter/http/response"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// RecoveryConfig controls how panics are reported.
type RecoveryConfig struct {
	// DisablePrintStack omits the stack trace from the panic log entry.
	DisablePrintStack bool
}

// DefaultRecoveryConfig returns the default recovery configuration.
func DefaultRecoveryConfig() RecoveryConfig {
	return RecoveryConfig{
		DisablePrintStack: false,
	}
}

// Recover returns middleware that recovers from panics in the handler chain.
// The panic is logged with its stack trace and the client receives the same
// internal_error shape the handlers emit. The server keeps serving.
func Recover(log *logger.Logger) echo.MiddlewareFunc {
	return RecoverWithConfig(log, DefaultRecoveryConfig())
}

// RecoverWithConfig returns recovery middleware with custom configuration.
func RecoverWithConfig(log *logger.Logger, config RecoveryConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					var panicMsg string
					if err, ok := r.(error); ok {
						panicMsg = err.Error()
					} else {
						panicMsg = fmt.Sprintf("%v", r)
					}

					event := log.WithRequestID(GetRequestID(c)).Error().
						Str("panic", panicMsg)
					if !config.DisablePrintStack {
						event = event.Str("stack", string(debug.Stack()))
					}
					event.Msg("Panic recovered")

					// Generic body; panic details stay in the log.
					if !c.Response().Committed {
						_ = response.InternalServerError(c)
					}
				}
			}()

			return next(c)
		}
	}
}
