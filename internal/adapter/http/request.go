// Package http provides the HTTP handler layer for the weather aggregation
// API. It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
)

// MaxBatchSize is the upper bound on items per bulk request. Batch-size
// policy is a boundary concern; the resolver itself imposes no cap.
const MaxBatchSize = 15

// BulkWeatherRequest represents the request body for bulk weather resolution.
type BulkWeatherRequest struct {
	// Cities is the batch of city requests, each by name or by provider ID
	Cities []domain.CityRequest `json:"cities"`
}

// countryCodePattern matches a two-letter country code.
var countryCodePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate checks the boundary-level request shape. Per-item name and ID
// semantics are judged by the resolver, which reports them per item; only
// structural problems reject the whole request here.
func (r *BulkWeatherRequest) Validate() error {
	errs := &ValidationErrors{}

	if len(r.Cities) == 0 {
		errs.Add("cities", "cities must be a non-empty array")
		return errs
	}

	if len(r.Cities) > MaxBatchSize {
		errs.Add("cities", fmt.Sprintf("batch size cannot exceed %d items", MaxBatchSize))
		return errs
	}

	for i, city := range r.Cities {
		field := fmt.Sprintf("cities[%d]", i)

		if city.City == "" && city.CityID == "" {
			errs.Add(field, "each item must provide city or cityId")
			continue
		}
		if city.City != "" && city.CityID != "" {
			errs.Add(field, "city and cityId are mutually exclusive")
			continue
		}
		if city.Country != "" && !countryCodePattern.MatchString(city.Country) {
			errs.Add(field+".country", "country must be a 2-letter code")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
