// Package response provides standardized HTTP response builders for the
// weather aggregation API. It centralizes response formatting to ensure
// consistency across all endpoints.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response represents a standardized API response envelope.
type Response struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (for successful responses)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (for error responses)
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains structured error information.
type ErrorDetail struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific error details (for validation errors)
	Details map[string]string `json:"details,omitempty"`
}

// Error codes emitted by the API. Batch items carry their own per-item codes
// inside the result payload; these cover whole-request outcomes only.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeValidationError = "validation_error"
	CodeTimeout         = "timeout"
	CodeInternalError   = "internal_error"
)

// Error messages used in API responses.
const (
	MsgInvalidRequestBody = "Failed to parse request body"
	MsgValidationFailed   = "Request validation failed"
	MsgTimeout            = "Request timed out"
	MsgRequestCancelled   = "Request was cancelled"
	MsgInternalError      = "An unexpected error occurred"
)

// Success creates a successful response envelope.
func Success(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// OK writes a 200 OK response with the given data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}
