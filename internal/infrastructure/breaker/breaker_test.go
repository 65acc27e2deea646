package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// testConfig trips quickly so tests stay fast.
func testConfig() Config {
	return Config{
		Services:         []string{ServiceWeatherProvider},
		Window:           time.Second,
		ResetTimeout:     50 * time.Millisecond,
		FailureThreshold: 0.8,
		MinRequests:      3,
		CallTimeout:      100 * time.Millisecond,
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(testConfig(), logger.Nop())

	g, err := r.Gate(ServiceWeatherProvider)
	require.NoError(t, err)
	assert.Equal(t, ServiceWeatherProvider, g.Name())

	_, err = r.Gate("database")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestGatePassesThroughWhenClosed(t *testing.T) {
	r := NewRegistry(testConfig(), logger.Nop())
	g, err := r.Gate(ServiceWeatherProvider)
	require.NoError(t, err)

	got, err := Execute(context.Background(), g, func(ctx context.Context) (string, error) {
		return "payload", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestGateOpensAfterFailureRate(t *testing.T) {
	r := NewRegistry(testConfig(), logger.Nop())
	g, err := r.Gate(ServiceWeatherProvider)
	require.NoError(t, err)

	boom := errors.New("upstream down")
	for i := 0; i < 5; i++ {
		_, _ = Execute(context.Background(), g, func(ctx context.Context) (string, error) {
			return "", boom
		})
	}

	assert.Equal(t, gobreaker.StateOpen, g.State())

	// While open, calls are rejected without invoking the function.
	called := false
	_, err = Execute(context.Background(), g, func(ctx context.Context) (string, error) {
		called = true
		return "", nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestGateRecoversThroughHalfOpen(t *testing.T) {
	cfg := testConfig()
	r := NewRegistry(cfg, logger.Nop())
	g, err := r.Gate(ServiceWeatherProvider)
	require.NoError(t, err)

	boom := errors.New("upstream down")
	for i := 0; i < 5; i++ {
		_, _ = Execute(context.Background(), g, func(ctx context.Context) (string, error) {
			return "", boom
		})
	}
	require.Equal(t, gobreaker.StateOpen, g.State())

	// After the reset timeout a single successful probe closes the gate.
	time.Sleep(cfg.ResetTimeout + 20*time.Millisecond)
	got, err := Execute(context.Background(), g, func(ctx context.Context) (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestGateCallTimeoutCountsAsFailure(t *testing.T) {
	r := NewRegistry(testConfig(), logger.Nop())
	g, err := r.Gate(ServiceWeatherProvider)
	require.NoError(t, err)

	_, err = Execute(context.Background(), g, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateIgnoresCallerCancellation(t *testing.T) {
	r := NewRegistry(testConfig(), logger.Nop())
	g, err := r.Gate(ServiceWeatherProvider)
	require.NoError(t, err)

	// Cancellations must not count toward the error rate, so even many of
	// them leave the gate closed.
	for i := 0; i < 10; i++ {
		_, _ = Execute(context.Background(), g, func(ctx context.Context) (string, error) {
			return "", context.Canceled
		})
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())
}
