package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/timeutil"
)

// memoryEntry is one stored value plus its lifecycle bookkeeping.
type memoryEntry struct {
	entry     domain.CacheEntry
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryCache is the in-process backend: a mutex-guarded map with one expiry
// timer per key. Reads also check expiry lazily against the injected clock,
// so a MockClock can drive expiry in tests without waiting on timers.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	timers  map[string]*time.Timer
	clock   timeutil.Clock
}

// NewMemoryCache creates an empty in-process cache using the system clock.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(timeutil.NewRealClock())
}

// NewMemoryCacheWithClock creates an in-process cache with a custom clock.
func NewMemoryCacheWithClock(clock timeutil.Clock) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		timers:  make(map[string]*time.Timer),
		clock:   clock,
	}
}

// Set stores an entry, replacing any existing value and its expiry timer.
func (c *MemoryCache) Set(_ context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[key]; ok {
		timer.Stop()
	}

	now := c.clock.Now()
	c.entries[key] = memoryEntry{
		entry:     entry,
		storedAt:  now,
		expiresAt: now.Add(ttl),
	}
	c.timers[key] = time.AfterFunc(ttl, func() {
		c.expire(key)
	})

	return nil
}

// expire removes a key when its timer fires.
func (c *MemoryCache) expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	delete(c.timers, key)
}

// Get returns the entry for key if present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.liveLocked(key)
	if !ok {
		return domain.CacheEntry{}, false, nil
	}
	return e.entry, true, nil
}

// Has reports whether key is present and not expired.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.liveLocked(key)
	return ok, nil
}

// Delete removes key, reporting whether it was present.
func (c *MemoryCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	if timer, exists := c.timers[key]; exists {
		timer.Stop()
	}
	delete(c.entries, key)
	delete(c.timers, key)
	return ok, nil
}

// Clear removes every entry and stops all timers.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, timer := range c.timers {
		timer.Stop()
	}
	c.entries = make(map[string]memoryEntry)
	c.timers = make(map[string]*time.Timer)
	return nil
}

// Size returns the number of live entries.
func (c *MemoryCache) Size(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	now := c.clock.Now()
	for _, e := range c.entries {
		if e.expiresAt.After(now) {
			count++
		}
	}
	return count, nil
}

// Stats returns a snapshot of live keys and their write times.
func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	keys := make([]string, 0, len(c.entries))
	for key, e := range c.entries {
		if e.expiresAt.After(now) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	timestamps := make([]time.Time, 0, len(keys))
	for _, key := range keys {
		timestamps = append(timestamps, c.entries[key].storedAt)
	}

	return Stats{
		Size:       len(keys),
		Keys:       keys,
		Timestamps: timestamps,
	}, nil
}

// liveLocked fetches an unexpired entry, evicting lazily when the clock has
// passed the deadline before the timer fired. Caller must hold the mutex.
func (c *MemoryCache) liveLocked(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.After(c.clock.Now()) {
		if timer, exists := c.timers[key]; exists {
			timer.Stop()
		}
		delete(c.entries, key)
		delete(c.timers, key)
		return memoryEntry{}, false
	}
	return e, true
}

// Ensure MemoryCache implements Cache at compile time.
var _ Cache = (*MemoryCache)(nil)
