// Package cache provides the key/value store used by the bulk weather
// resolver. Two interchangeable backends exist: an in-process map with one
// expiry timer per key, and a Redis-backed store with namespaced keys. The
// backend is selected once at startup; callers only see the Cache interface.
package cache

import (
	"context"
	"time"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
)

// DefaultTTL is the cache lifetime applied when a caller passes a
// non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Stats is a point-in-time snapshot of cache contents, used for diagnostics.
type Stats struct {
	// Size is the number of live entries
	Size int `json:"size"`

	// Keys lists the live keys (prefix stripped for the Redis backend)
	Keys []string `json:"keys"`

	// Timestamps holds each entry's write time, parallel to Keys
	Timestamps []time.Time `json:"timestamps"`

	// Connected reports backend reachability; nil for the in-process store
	Connected *bool `json:"connected,omitempty"`
}

// Cache is the uniform contract both backends satisfy. Read failures on a
// degraded backend surface as misses, never as errors; write failures return
// the error so the caller can decide (the resolver logs and continues).
type Cache interface {
	// Set stores an entry under key with the given TTL.
	Set(ctx context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error

	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) (domain.CacheEntry, bool, error)

	// Has reports whether key is present.
	Has(ctx context.Context, key string) (bool, error)

	// Delete removes key, reporting whether it was present.
	Delete(ctx context.Context, key string) (bool, error)

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	// Size returns the number of live entries.
	Size(ctx context.Context) (int, error)

	// Stats returns a diagnostic snapshot.
	Stats(ctx context.Context) (Stats, error)
}
