// Package integration provides helpers and integration tests for the weather
// aggregation system. Integration tests verify that components work together
// correctly, including HTTP handlers, the resolution pipeline, caching, and
// mock providers.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	httpAdapter "github.com/weathergate/weather-aggregation-service/internal/adapter/http"
	"github.com/weathergate/weather-aggregation-service/internal/adapter/http/response"
	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/breaker"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
	"github.com/weathergate/weather-aggregation-service/internal/usecase"
)

// TestServer wraps an Echo instance and provides helper methods for
// integration testing.
type TestServer struct {
	Echo    *echo.Echo
	Handler *httpAdapter.WeatherHandler
	Store   cache.Cache
}

// NewTestServer creates a new test server with the given resolver and cache.
func NewTestServer(resolver usecase.WeatherResolver, store cache.Cache) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler := httpAdapter.NewWeatherHandler(resolver, store)
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:    e,
		Handler: handler,
		Store:   store,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// BulkRequest executes a bulk weather resolution request with the given body.
func (ts *TestServer) BulkRequest(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/weather/bulk",
		Body:   body,
	})
}

// CacheStatsRequest makes a cache stats request.
func (ts *TestServer) CacheStatsRequest() Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   "/api/v1/cache/stats",
	})
}

// CacheClearRequest makes a cache invalidation request.
func (ts *TestServer) CacheClearRequest() Response {
	return ts.Do(Request{
		Method: http.MethodDelete,
		Path:   "/api/v1/cache",
	})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   "/health",
	})
}

// Envelope mirrors the standard response envelope with the data left raw for
// a second decoding pass.
type Envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

// ParseEnvelope parses the response body as the standard envelope.
func (r *Response) ParseEnvelope() (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// ParseBulkResponse parses the response body as an enveloped bulk result.
func (r *Response) ParseBulkResponse() (*httpAdapter.BulkWeatherResponseDTO, error) {
	env, err := r.ParseEnvelope()
	if err != nil {
		return nil, err
	}
	var dto httpAdapter.BulkWeatherResponseDTO
	if err := json.Unmarshal(env.Data, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// ParseError parses the response body to extract error information.
func (r *Response) ParseError() (map[string]interface{}, error) {
	var errResp map[string]interface{}
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return nil, err
	}
	return errResp, nil
}

// LenientGateConfig returns gate tuning that effectively never trips, so
// tests exercise resolution behavior without breaker interference.
func LenientGateConfig() breaker.Config {
	return breaker.Config{
		Services:         []string{breaker.ServiceWeatherProvider},
		Window:           10 * time.Second,
		ResetTimeout:     50 * time.Millisecond,
		FailureThreshold: 0.99,
		MinRequests:      1000,
		CallTimeout:      2 * time.Second,
	}
}

// CreateResolver creates a resolver with default configuration and a gate
// that never trips.
func CreateResolver(provider domain.WeatherProvider, store cache.Cache) usecase.WeatherResolver {
	return CreateResolverWithConfig(provider, store, nil, LenientGateConfig())
}

// CreateResolverWithConfig creates a resolver with custom resolver and gate
// configuration.
func CreateResolverWithConfig(provider domain.WeatherProvider, store cache.Cache, config *usecase.Config, gateCfg breaker.Config) usecase.WeatherResolver {
	log := logger.Nop()
	gates := breaker.NewRegistry(gateCfg, log)
	resolver, err := usecase.NewBulkWeatherResolver(provider, store, gates, config, log)
	if err != nil {
		panic(err)
	}
	return resolver
}

// CityByName builds a name-form request item.
func CityByName(city, country string) domain.CityRequest {
	return domain.CityRequest{City: city, Country: country}
}

// CityByID builds an id-form request item.
func CityByID(id string) domain.CityRequest {
	return domain.CityRequest{CityID: id}
}

// BulkBody builds a request body from the given items.
func BulkBody(cities ...domain.CityRequest) httpAdapter.BulkWeatherRequest {
	return httpAdapter.BulkWeatherRequest{Cities: cities}
}
