// Package domain contains the core business entities and rules for the weather
// aggregation system. These entities are provider-agnostic and form the
// foundation upon which all other components are built.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"time"
)

// TemperatureUnit is the unit attached to every resolved temperature.
const TemperatureUnit = "°C"

// CityRequest is a single item in a bulk weather resolution call.
// Exactly one of the two request shapes is expected:
//   - name form: City (required) plus an optional two-letter Country code
//   - id form: CityID referencing the provider's numeric city identifier
//
// The resolver infers the shape from the presence of CityID.
type CityRequest struct {
	// City is the city name for name-form requests
	City string `json:"city,omitempty"`

	// Country is an optional ISO 3166-1 alpha-2 country code
	Country string `json:"country,omitempty"`

	// CityID is the provider city identifier for id-form requests
	CityID string `json:"cityId,omitempty"`
}

// cityIDRegex matches a well-formed provider city ID (digits only).
var cityIDRegex = regexp.MustCompile(`^\d+$`)

// UnmarshalJSON accepts cityId as either a JSON string or a JSON number,
// coercing numbers to their decimal string form.
func (r *CityRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		City    string          `json:"city"`
		Country string          `json:"country"`
		CityID  json.RawMessage `json:"cityId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.City = raw.City
	r.Country = raw.Country
	r.CityID = ""

	if len(raw.CityID) == 0 || string(raw.CityID) == "null" {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw.CityID, &asString); err == nil {
		r.CityID = asString
		return nil
	}

	var asNumber int64
	if err := json.Unmarshal(raw.CityID, &asNumber); err == nil {
		r.CityID = fmt.Sprintf("%d", asNumber)
		return nil
	}

	return fmt.Errorf("cityId must be a string or a number")
}

// IsIDRequest reports whether this request follows the id form.
func (r CityRequest) IsIDRequest() bool {
	return r.CityID != ""
}

// HasValidID reports whether CityID is a non-empty digit string.
// Format validity and semantic existence are different checks: "0" is a
// well-formed ID even if no such city exists upstream.
func (r CityRequest) HasValidID() bool {
	return cityIDRegex.MatchString(r.CityID)
}

// Coordinates holds a geographic point. Nil fields indicate the provider
// payload carried no coordinate data.
type Coordinates struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// ResolvedLocation is the location portion of a resolved city.
type ResolvedLocation struct {
	// Name is the canonical city name as reported by the provider
	Name string `json:"name"`

	// Country is the country name, or "Unknown" when the provider omits it
	Country string `json:"country"`

	// CountryCode is the ISO country code, or "" when absent
	CountryCode string `json:"countryCode"`

	// Coordinates is the geographic position with nil sentinels when absent
	Coordinates Coordinates `json:"coordinates"`
}

// ResolvedWeather is the weather portion of a resolved city.
type ResolvedWeather struct {
	// Temperature in whole degrees Celsius, rounded half up
	Temperature int `json:"temperature"`

	// Unit is always TemperatureUnit
	Unit string `json:"unit"`

	// Condition is the human-readable weather description
	Condition string `json:"condition"`

	// Icon is the provider's icon identifier (e.g., "04d")
	Icon string `json:"icon"`

	// Timestamp is the observation time in ISO 8601, derived from the
	// provider's unix-seconds field
	Timestamp string `json:"timestamp"`
}

// CacheEntry is the cache-worthy subset of a resolved city. Per-request
// diagnostic metadata is never cached.
type CacheEntry struct {
	Location ResolvedLocation `json:"location"`
	Weather  ResolvedWeather  `json:"weather"`
}

// ResultStatus is the per-item outcome classification.
type ResultStatus string

// Per-item result statuses.
const (
	StatusFound    ResultStatus = "found"
	StatusNotFound ResultStatus = "not-found"
	StatusError    ResultStatus = "error"
)

// Result sources recorded in ResultMeta.Source.
const (
	SourceAPI   = "api"
	SourceCache = "cache"
)

// ResultMeta carries per-item diagnostic metadata. It is returned to the
// caller but never written to the cache.
type ResultMeta struct {
	// Cached indicates the result was served without a provider call
	Cached bool `json:"cached"`

	// CacheKey is the key used for cache lookup, empty when none was derived
	CacheKey string `json:"cacheKey,omitempty"`

	// AttemptedVariations lists the fallback name variations tried, in order
	AttemptedVariations []string `json:"attemptedVariations,omitempty"`

	// SuccessfulVariation is the variation that produced a payload
	SuccessfulVariation string `json:"successfulVariation,omitempty"`

	// Source is "api" or "cache" for found results
	Source string `json:"source,omitempty"`
}

// CityResult is the per-item output of a bulk resolution.
type CityResult struct {
	// SearchIndex is the 0-based position of the request in the input array
	SearchIndex int `json:"searchIndex"`

	// Input echoes the original request
	Input CityRequest `json:"input"`

	// Status is exactly one of found, not-found, or error
	Status ResultStatus `json:"status"`

	// Location is non-nil iff Status is found
	Location *ResolvedLocation `json:"location"`

	// Weather is non-nil iff Status is found
	Weather *ResolvedWeather `json:"weather"`

	// Error is non-nil iff Status is not-found or error
	Error *ErrorInfo `json:"error"`

	// Meta carries diagnostic metadata about how the item was resolved
	Meta ResultMeta `json:"meta"`
}

// BatchSummary aggregates per-item outcomes. Found and Failed partition the
// batch; Cached is a subset of Found.
type BatchSummary struct {
	Total  int `json:"total"`
	Found  int `json:"found"`
	Failed int `json:"failed"`
	Cached int `json:"cached"`
}

// BatchResult is the aggregated response for one bulk resolution call.
type BatchResult struct {
	// Cities holds per-item results sorted by SearchIndex
	Cities []CityResult `json:"cities"`

	// Summary aggregates the per-item outcomes
	Summary BatchSummary `json:"summary"`

	// ElapsedMs is the total wall-clock duration of the batch in milliseconds
	ElapsedMs int64 `json:"elapsed_ms"`
}

// RoundTemperature rounds a raw metric temperature to the nearest whole
// degree using round-half-up: 20.5 becomes 21, -5.5 becomes -5, -5.7
// becomes -6.
func RoundTemperature(t float64) int {
	return int(math.Floor(t + 0.5))
}

// NewResolvedLocation derives a location from a raw provider payload.
// Missing country degrades to the "Unknown"/"" sentinels and missing
// coordinates to nil rather than omitting the fields.
func NewResolvedLocation(p *WeatherPayload) ResolvedLocation {
	loc := ResolvedLocation{
		Name:        p.Name,
		Country:     "Unknown",
		CountryCode: "",
	}

	if p.Sys != nil && p.Sys.Country != "" {
		loc.Country = p.Sys.Country
		loc.CountryCode = p.Sys.Country
	}

	if p.Coord != nil {
		lat, lon := p.Coord.Lat, p.Coord.Lon
		loc.Coordinates = Coordinates{Lat: &lat, Lon: &lon}
	}

	return loc
}

// NewResolvedWeather derives weather from a raw provider payload.
// The caller must have checked HasData first.
func NewResolvedWeather(p *WeatherPayload) ResolvedWeather {
	return ResolvedWeather{
		Temperature: RoundTemperature(p.Main.Temp),
		Unit:        TemperatureUnit,
		Condition:   p.Weather[0].Description,
		Icon:        p.Weather[0].Icon,
		Timestamp:   time.Unix(p.Dt, 0).UTC().Format(time.RFC3339),
	}
}

// NewCacheEntry builds the cache-worthy subset of a provider payload.
func NewCacheEntry(p *WeatherPayload) CacheEntry {
	return CacheEntry{
		Location: NewResolvedLocation(p),
		Weather:  NewResolvedWeather(p),
	}
}
