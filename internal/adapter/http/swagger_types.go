// Package http provides swagger type definitions for API documentation.
// These types mirror domain types but are defined here to help swag generate proper documentation.
package http

// SwaggerBulkWeatherResponse represents the bulk resolution response for swagger documentation.
// @Description Per-item weather resolution results with a batch summary
type SwaggerBulkWeatherResponse struct {
	// Cities contains the per-item results in input order
	Cities []SwaggerCityResult `json:"cities"`

	// Summary aggregates the per-item outcomes
	Summary SwaggerBatchSummary `json:"summary"`

	// ElapsedMs is the total batch duration in milliseconds
	ElapsedMs int64 `json:"elapsed_ms" example:"430"`
}

// SwaggerCityResult represents one resolved batch item.
// @Description Resolution outcome for a single city request
type SwaggerCityResult struct {
	// SearchIndex is the 0-based position of this item in the request
	SearchIndex int `json:"searchIndex" example:"0"`

	// Status is one of found, not-found, or error
	Status string `json:"status" example:"found"`

	// Location holds the resolved location, null unless found
	Location *SwaggerLocation `json:"location"`

	// Weather holds the resolved weather, null unless found
	Weather *SwaggerWeather `json:"weather"`

	// Error holds the failure code and message, null when found
	Error *SwaggerErrorInfo `json:"error"`

	// Meta carries resolution diagnostics
	Meta SwaggerResultMeta `json:"meta"`
}

// SwaggerLocation contains resolved location information.
// @Description Resolved geographic location
type SwaggerLocation struct {
	// Name is the canonical city name reported by the provider
	Name string `json:"name" example:"London"`

	// Country is the country name, or "Unknown" when absent
	Country string `json:"country" example:"GB"`

	// CountryCode is the ISO country code, or "" when absent
	CountryCode string `json:"countryCode" example:"GB"`
}

// SwaggerWeather contains resolved weather information.
// @Description Current weather conditions
type SwaggerWeather struct {
	// Temperature in whole degrees Celsius
	Temperature int `json:"temperature" example:"15"`

	// Unit is the temperature unit
	Unit string `json:"unit" example:"°C"`

	// Condition is the human-readable weather description
	Condition string `json:"condition" example:"Overcast clouds"`

	// Icon is the provider icon identifier
	Icon string `json:"icon" example:"04d"`

	// Timestamp is the observation time in ISO 8601
	Timestamp string `json:"timestamp" example:"2025-07-04T10:30:00Z"`
}

// SwaggerResultMeta contains per-item resolution diagnostics.
// @Description How the item was resolved
type SwaggerResultMeta struct {
	// Cached indicates the result was served without a provider call
	Cached bool `json:"cached" example:"false"`

	// CacheKey is the key used for cache lookup
	CacheKey string `json:"cacheKey,omitempty" example:"london-gb"`

	// AttemptedVariations lists the fallback name variations tried, in order
	AttemptedVariations []string `json:"attemptedVariations,omitempty" example:"Zürich (Kreis 11) / Oerlikon,Zürich"`

	// SuccessfulVariation is the variation that produced a payload
	SuccessfulVariation string `json:"successfulVariation,omitempty" example:"Zürich"`

	// Source is "api" or "cache" for found results
	Source string `json:"source,omitempty" example:"api"`
}

// SwaggerBatchSummary aggregates per-item outcomes.
// @Description Batch outcome counts
type SwaggerBatchSummary struct {
	// Total is the number of items in the batch
	Total int `json:"total" example:"4"`

	// Found is the number of items resolved successfully
	Found int `json:"found" example:"3"`

	// Failed is the number of items that could not be resolved
	Failed int `json:"failed" example:"1"`

	// Cached is the number of found items served from cache
	Cached int `json:"cached" example:"1"`
}

// SwaggerErrorInfo contains the per-item failure classification.
// @Description Per-item error details
type SwaggerErrorInfo struct {
	// Code is a machine-readable error code
	Code string `json:"code" example:"CITY_NOT_FOUND"`

	// Message is a human-readable error message
	Message string `json:"message" example:"city not found"`
}

// SwaggerErrorResponse represents an error response.
// @Description Error response from the API
type SwaggerErrorResponse struct {
	// Success is always false for error responses
	Success bool `json:"success" example:"false"`

	// Error contains error details
	Error SwaggerErrorDetail `json:"error"`
}

// SwaggerErrorDetail contains structured error information.
// @Description Error details
type SwaggerErrorDetail struct {
	// Code is a machine-readable error code
	Code string `json:"code" example:"validation_error"`

	// Message is a human-readable error message
	Message string `json:"message" example:"Request validation failed"`

	// Details contains field-specific error details
	Details map[string]string `json:"details,omitempty"`
}
