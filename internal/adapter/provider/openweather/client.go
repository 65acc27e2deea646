// Package openweather implements the weather provider boundary against the
// OpenWeather current-weather endpoint. The client performs the HTTP call
// with bounded retries and returns the parsed payload unchanged; it does not
// decide whether a payload is usable.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/retry"
)

// ProviderName is the unique identifier for the OpenWeather provider.
const ProviderName = "openweather"

// Config holds the fixed call parameters. API key, unit system, language,
// and response format are configuration, not per-call inputs.
type Config struct {
	BaseURL  string        `env:"WEATHER_API_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5/weather"`
	APIKey   string        `env:"WEATHER_API_KEY"`
	Units    string        `env:"WEATHER_API_UNITS" envDefault:"metric"`
	Language string        `env:"WEATHER_API_LANG" envDefault:"en"`
	Mode     string        `env:"WEATHER_API_MODE" envDefault:"json"`
	Timeout  time.Duration `env:"WEATHER_API_TIMEOUT" envDefault:"5s"`
}

// Client calls the OpenWeather API with retry on transient failures.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retryCfg   retry.Config
	log        *logger.Logger
}

// NewClient creates a Client with the given configuration.
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryCfg:   retry.TransportConfig,
		log:        log.WithComponent("openweather_client"),
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return ProviderName
}

// GetByID fetches current weather by provider city ID.
func (c *Client) GetByID(ctx context.Context, cityID string) (*domain.WeatherPayload, error) {
	query := url.Values{}
	query.Set("id", cityID)
	return c.fetch(ctx, query)
}

// GetByNameAndCountry fetches current weather by name, building the location
// query as "{city},{country}" when a country code is present.
func (c *Client) GetByNameAndCountry(ctx context.Context, city, country string) (*domain.WeatherPayload, error) {
	location := city
	if country != "" {
		location = fmt.Sprintf("%s,%s", city, country)
	}

	query := url.Values{}
	query.Set("q", location)
	return c.fetch(ctx, query)
}

// apiError is the provider's error document shape.
type apiError struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// fetch performs the HTTP call with the fixed parameters attached, retrying
// transient failures (429, 5xx, dropped connections) with backoff.
func (c *Client) fetch(ctx context.Context, query url.Values) (*domain.WeatherPayload, error) {
	query.Set("appid", c.cfg.APIKey)
	query.Set("units", c.cfg.Units)
	query.Set("lang", c.cfg.Language)
	query.Set("mode", c.cfg.Mode)
	endpoint := fmt.Sprintf("%s?%s", c.cfg.BaseURL, query.Encode())

	payload, err := retry.DoWithResult(ctx, func() (*domain.WeatherPayload, error) {
		return c.doRequest(ctx, endpoint)
	}, c.retryCfg)
	if err != nil {
		return nil, domain.NewProviderError(ProviderName, err)
	}
	return payload, nil
}

// doRequest executes a single attempt. Client-side errors (4xx other than
// 429) are permanent: retrying an unknown city cannot help.
func (c *Client) doRequest(ctx context.Context, endpoint string) (*domain.WeatherPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.NewPermanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if len(body) == 0 {
			// Treated downstream as "no data", same as a missing payload.
			return nil, nil
		}
		var payload domain.WeatherPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, retry.NewPermanent(fmt.Errorf("decode payload: %w", err))
		}
		return &payload, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)

	default:
		return nil, retry.NewPermanent(fmt.Errorf("upstream status %d: %s", resp.StatusCode, apiMessage(body)))
	}
}

// apiMessage extracts the provider's error message when the body carries one.
func apiMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || e.Message == "" {
		return "no message"
	}
	return e.Message
}

// Ensure Client implements the provider boundary at compile time.
var _ domain.WeatherProvider = (*Client)(nil)
