// Package mock provides test doubles for the weather aggregation system.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, specific payloads).
package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
)

// ErrCityNotFound is the default failure for unconfigured lookups.
var ErrCityNotFound = errors.New("city not found")

// Provider is a configurable mock implementation of domain.WeatherProvider.
// It supports configurable delays, errors, and per-city payloads for testing
// various scenarios including timeouts and partial failures.
type Provider struct {
	name       string
	byName     map[string]*domain.WeatherPayload
	byID       map[string]*domain.WeatherPayload
	err        error
	delay      time.Duration
	callCounts map[string]int
	mu         sync.Mutex
}

// NewProvider creates a new mock provider with the given name.
// The provider is configured using the builder pattern methods.
func NewProvider(name string) *Provider {
	return &Provider{
		name:       name,
		byName:     make(map[string]*domain.WeatherPayload),
		byID:       make(map[string]*domain.WeatherPayload),
		callCounts: make(map[string]int),
	}
}

// WithCity configures a payload returned for the given city name, as passed
// to GetByNameAndCountry after cleaning.
func (p *Provider) WithCity(city string, payload *domain.WeatherPayload) *Provider {
	p.byName[city] = payload
	return p
}

// WithCityID configures a payload returned for the given city ID.
func (p *Provider) WithCityID(id string, payload *domain.WeatherPayload) *Provider {
	p.byID[id] = payload
	return p
}

// WithError configures the provider to fail every call with the given error.
func (p *Provider) WithError(err error) *Provider {
	p.err = err
	return p
}

// WithDelay configures the provider to wait the given duration before responding.
// This is useful for testing timeout behavior.
func (p *Provider) WithDelay(d time.Duration) *Provider {
	p.delay = d
	return p
}

// Name returns the provider's unique identifier.
func (p *Provider) Name() string {
	return p.name
}

// GetByID implements domain.WeatherProvider.GetByID.
func (p *Provider) GetByID(ctx context.Context, cityID string) (*domain.WeatherPayload, error) {
	p.recordCall("id:" + cityID)

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	if payload, ok := p.byID[cityID]; ok {
		return payload, nil
	}
	return nil, ErrCityNotFound
}

// GetByNameAndCountry implements domain.WeatherProvider.GetByNameAndCountry.
func (p *Provider) GetByNameAndCountry(ctx context.Context, city, country string) (*domain.WeatherPayload, error) {
	p.recordCall("name:" + city)

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	if payload, ok := p.byName[city]; ok {
		return payload, nil
	}
	return nil, ErrCityNotFound
}

// wait applies the configured delay, honoring context cancellation.
func (p *Provider) wait(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay):
		}
	}
	return ctx.Err()
}

// recordCall bumps the call counter for one lookup key.
func (p *Provider) recordCall(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCounts[key]++
}

// CallCount returns the total number of provider calls.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.callCounts {
		total += n
	}
	return total
}

// CallCountFor returns how many times the given city name was looked up.
func (p *Provider) CallCountFor(city string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCounts["name:"+city]
}

// Reset resets all call counters.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCounts = make(map[string]int)
}

// Ensure Provider implements domain.WeatherProvider at compile time.
var _ domain.WeatherProvider = (*Provider)(nil)

// SamplePayload returns a fully populated provider payload for testing.
func SamplePayload(name, country string, temp float64) *domain.WeatherPayload {
	lat, lon := 51.5085, -0.1257
	return &domain.WeatherPayload{
		ID:      2643743,
		Name:    name,
		Coord:   &domain.PayloadCoord{Lat: lat, Lon: lon},
		Weather: []domain.PayloadCondition{{Main: "Clouds", Description: "Overcast clouds", Icon: "04d"}},
		Main: &domain.PayloadMain{
			Temp:     temp,
			Humidity: 72,
			Pressure: 1012,
		},
		Sys: &domain.PayloadSys{Country: country},
		Dt:  1751625000,
	}
}
