package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for whole-batch precondition failures. These are the only
// errors that propagate out of the resolver; everything else is captured in
// the per-item result.
var (
	// ErrEmptyBatch is returned when Execute receives no city requests.
	ErrEmptyBatch = errors.New("cities must be a non-empty array")

	// ErrBatchTooLarge is returned by the HTTP boundary when a batch exceeds
	// the configured item cap. The resolver itself imposes no cap.
	ErrBatchTooLarge = errors.New("too many cities in batch")
)

// ErrorCode identifies the class of a per-item resolution failure.
type ErrorCode string

// Per-item error codes.
const (
	// CodeInvalidCityName marks malformed input (bad name or malformed ID).
	CodeInvalidCityName ErrorCode = "INVALID_CITY_NAME"

	// CodeCityNotFound marks a valid request the provider has no data for.
	CodeCityNotFound ErrorCode = "CITY_NOT_FOUND"
)

// ErrorInfo is the caller-facing error detail attached to a CityResult.
type ErrorInfo struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ResolveError is a tagged per-item resolution error. The HTTP boundary maps
// codes to response shapes with an explicit switch, never by matching on
// free-form message strings.
type ResolveError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Info converts the error to its caller-facing representation.
func (e *ResolveError) Info() *ErrorInfo {
	return &ErrorInfo{Code: e.Code, Message: e.Message}
}

// NewInvalidCityName creates a ResolveError for malformed city input.
func NewInvalidCityName(input string) *ResolveError {
	return &ResolveError{
		Code:    CodeInvalidCityName,
		Message: fmt.Sprintf("invalid city name: %q", input),
	}
}

// NewCityNotFound creates a ResolveError for a city the provider could not
// resolve. The message carries the last underlying failure.
func NewCityNotFound(message string) *ResolveError {
	return &ResolveError{
		Code:    CodeCityNotFound,
		Message: message,
	}
}

// ProviderError wraps an upstream weather provider failure with the provider
// name for diagnostics.
type ProviderError struct {
	// Provider is the name of the provider that failed
	Provider string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As checks.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a ProviderError wrapping the given error.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
