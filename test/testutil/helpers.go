// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"testing"
	"time"
)

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}

// FloatPtr returns a pointer to a float64.
// Convenience function for coordinate assertions.
func FloatPtr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to an int.
func IntPtr(i int) *int {
	return &i
}

// BoolPtr returns a pointer to a bool.
// Convenience function for cache connectivity assertions.
func BoolPtr(b bool) *bool {
	return &b
}
