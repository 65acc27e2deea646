// Package breaker provides named circuit gates protecting remote
// dependencies. Each gate wraps sony/gobreaker with a per-call timeout and an
// error filter, and gates are looked up by service name from a fixed,
// validated set configured at startup. One gate instance per name is shared
// process-wide, so concurrent batch items observe the same breaker state.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// ServiceWeatherProvider is the gate name guarding the upstream weather API.
const ServiceWeatherProvider = "weatherProvider"

// Sentinel errors.
var (
	// ErrCircuitOpen signals that the gate rejected the call without
	// invoking the dependency.
	ErrCircuitOpen = errors.New("circuit gate open")

	// ErrUnknownService signals a lookup for a name outside the configured
	// set. This is a usage error, not a runtime fallback.
	ErrUnknownService = errors.New("unknown circuit gate service")
)

// Config holds the gate tuning shared by every registered service.
type Config struct {
	// Services is the fixed set of valid gate names.
	Services []string

	// Window is the rolling window over which the error rate is tracked.
	Window time.Duration

	// ResetTimeout is how long an open gate waits before half-opening.
	ResetTimeout time.Duration

	// FailureThreshold is the error ratio (0..1) that opens the gate.
	FailureThreshold float64

	// MinRequests is the minimum sample count before the gate can trip.
	MinRequests uint32

	// CallTimeout bounds each guarded call; exceeding it counts as failure.
	CallTimeout time.Duration
}

// DefaultConfig returns the default gate tuning.
func DefaultConfig() Config {
	return Config{
		Services:         []string{ServiceWeatherProvider},
		Window:           10 * time.Second,
		ResetTimeout:     10 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
		CallTimeout:      4 * time.Second,
	}
}

// Gate is one named circuit breaker bound to a remote dependency.
type Gate struct {
	name        string
	cb          *gobreaker.CircuitBreaker
	callTimeout time.Duration
}

// Name returns the gate's service name.
func (g *Gate) Name() string {
	return g.name
}

// State returns the underlying breaker state for diagnostics.
func (g *Gate) State() gobreaker.State {
	return g.cb.State()
}

// Do runs fn through the gate with the per-call timeout applied. When the
// gate is open the call is rejected immediately with ErrCircuitOpen.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	result, err := g.cb.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
		return fn(callCtx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, g.name)
		}
		return nil, err
	}
	return result, nil
}

// Execute runs a typed function through the gate.
func Execute[T any](ctx context.Context, g *Gate, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	result, err := g.Do(ctx, func(callCtx context.Context) (interface{}, error) {
		return fn(callCtx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit gate %s: unexpected result type %T", g.name, result)
	}
	return typed, nil
}

// Registry owns the fixed set of gates, one per configured service name.
type Registry struct {
	gates map[string]*Gate
}

// NewRegistry builds one gate per configured service.
func NewRegistry(cfg Config, log *logger.Logger) *Registry {
	gates := make(map[string]*Gate, len(cfg.Services))
	for _, name := range cfg.Services {
		gates[name] = newGate(name, cfg, log)
	}
	return &Registry{gates: gates}
}

// Gate looks up a gate by service name. Unregistered names return
// ErrUnknownService.
func (r *Registry) Gate(name string) (*Gate, error) {
	g, ok := r.gates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	return g, nil
}

// newGate constructs a single gate with the shared tuning.
func newGate(name string, cfg Config, log *logger.Logger) *Gate {
	gateLog := log.WithComponent("circuit_gate").WithContext("gate", name)

	settings := gobreaker.Settings{
		Name: name,
		// A single trial call probes recovery in half-open state.
		MaxRequests: 1,
		Interval:    cfg.Window,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			gateLog.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit gate state change")
		},
		// Cancellations reflect the caller giving up, not dependency
		// health; counting them would self-reinforce false opens.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Gate{
		name:        name,
		cb:          gobreaker.NewCircuitBreaker(settings),
		callTimeout: cfg.CallTimeout,
	}
}
