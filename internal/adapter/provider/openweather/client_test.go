package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/retry"
)

const londonBody = `{
	"id": 2643743,
	"name": "London",
	"coord": {"lat": 51.5085, "lon": -0.1257},
	"weather": [{"main": "Clouds", "description": "overcast clouds", "icon": "04d"}],
	"main": {"temp": 15.4, "humidity": 72, "pressure": 1012},
	"sys": {"country": "GB"},
	"dt": 1751625000
}`

// newTestClient points a Client at the test server with fast retries.
func newTestClient(serverURL string) *Client {
	c := NewClient(Config{
		BaseURL:  serverURL,
		APIKey:   "test-key",
		Units:    "metric",
		Language: "en",
		Mode:     "json",
		Timeout:  time.Second,
	}, logger.Nop())
	c.retryCfg = retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		RetryIf:      retry.SkipPermanent,
	}
	return c
}

func TestGetByNameAndCountry(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(londonBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	payload, err := c.GetByNameAndCountry(context.Background(), "London", "GB")
	require.NoError(t, err)

	require.NotNil(t, payload)
	assert.Equal(t, "London", payload.Name)
	assert.True(t, payload.HasData())
	assert.InDelta(t, 15.4, payload.Main.Temp, 0.001)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"London,GB"}, query["q"])
	assert.Equal(t, []string{"test-key"}, query["appid"])
	assert.Equal(t, []string{"metric"}, query["units"])
	assert.Equal(t, []string{"en"}, query["lang"])
	assert.Equal(t, []string{"json"}, query["mode"])
}

func TestGetByNameWithoutCountry(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(londonBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.GetByNameAndCountry(context.Background(), "London", "")
	require.NoError(t, err)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"London"}, query["q"])
}

func TestGetByID(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(londonBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	payload, err := c.GetByID(context.Background(), "2643743")
	require.NoError(t, err)
	assert.Equal(t, int64(2643743), payload.ID)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"2643743"}, query["id"])
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.GetByNameAndCountry(context.Background(), "Nowhere", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "city not found")
	assert.Equal(t, int32(1), calls.Load())

	var provErr *domain.ProviderError
	assert.ErrorAs(t, err, &provErr)
	assert.Equal(t, ProviderName, provErr.Provider)
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(londonBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	payload, err := c.GetByNameAndCountry(context.Background(), "London", "GB")

	require.NoError(t, err)
	assert.Equal(t, "London", payload.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRateLimitIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(londonBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.GetByNameAndCountry(context.Background(), "London", "GB")

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmptyBodyYieldsNilPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	payload, err := c.GetByNameAndCountry(context.Background(), "London", "GB")

	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.False(t, payload.HasData())
}
