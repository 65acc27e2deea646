package domain

import "context"

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=domain

// WeatherProvider is the boundary to an upstream current-weather API.
// Implementations perform the HTTP call (with whatever retry mechanics they
// carry) and return the parsed payload unchanged; classifying an empty
// payload as "not found" is the resolver's job, not the provider's.
type WeatherProvider interface {
	// Name returns the provider's unique identifier, used for circuit gate
	// lookup and diagnostics.
	Name() string

	// GetByID fetches current weather by provider city ID.
	GetByID(ctx context.Context, cityID string) (*WeatherPayload, error)

	// GetByNameAndCountry fetches current weather by city name and optional
	// two-letter country code.
	GetByNameAndCountry(ctx context.Context, city, country string) (*WeatherPayload, error)
}

// WeatherPayload is the raw current-weather document returned by the
// provider. Pointer fields are nil when the provider omits the section.
type WeatherPayload struct {
	// ID is the provider's city identifier
	ID int64 `json:"id"`

	// Name is the resolved city name
	Name string `json:"name"`

	// Coord holds the geographic coordinates
	Coord *PayloadCoord `json:"coord"`

	// Weather lists the active conditions; the first entry is primary
	Weather []PayloadCondition `json:"weather"`

	// Main holds the principal metrics (temperature etc.)
	Main *PayloadMain `json:"main"`

	// Sys holds country and sunrise/sunset metadata
	Sys *PayloadSys `json:"sys"`

	// Dt is the observation time in unix seconds
	Dt int64 `json:"dt"`
}

// PayloadCoord is the coordinates section of a provider payload.
type PayloadCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PayloadCondition is one weather condition entry.
type PayloadCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// PayloadMain is the principal metrics section.
type PayloadMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

// PayloadSys is the system metadata section.
type PayloadSys struct {
	Country string `json:"country"`
}

// HasData reports whether the payload carries enough data to build a
// resolved result. A payload without it is treated identically to a provider
// error: the resolver advances to the next fallback variation.
func (p *WeatherPayload) HasData() bool {
	return p != nil && p.Main != nil && len(p.Weather) > 0
}
