package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
)

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Host      string `env:"REDIS_HOST" envDefault:"localhost"`
	Port      int    `env:"REDIS_PORT" envDefault:"6379"`
	Password  string `env:"REDIS_PASSWORD" envDefault:""`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"weather:"`
}

// redisEnvelope is the serialized form of a cache entry. The timestamp
// records the write time for Stats reporting.
type redisEnvelope struct {
	Value     domain.CacheEntry `json:"value"`
	Timestamp time.Time         `json:"timestamp"`
}

// RedisCache is the network-backed cache. Every key is transparently
// namespaced with the configured prefix, and enumeration operations only see
// keys under that prefix. Read failures degrade to misses; write failures
// surface as errors.
type RedisCache struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisCache connects to Redis and verifies reachability with a ping.
func NewRedisCache(cfg RedisConfig, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: cfg.KeyPrefix,
		log:    log.WithComponent("redis_cache"),
	}, nil
}

// Set serializes the entry with a write timestamp and stores it with the TTL
// rounded up to whole seconds.
func (c *RedisCache) Set(ctx context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(redisEnvelope{Value: entry, Timestamp: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	seconds := int64((ttl + time.Second - 1) / time.Second)
	if err := c.client.Set(ctx, c.prefixed(key), data, time.Duration(seconds)*time.Second).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Get returns the entry for key. Any backend failure is logged and reported
// as a miss so an unreachable Redis never fails a batch item.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	data, err := c.client.Get(ctx, c.prefixed(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("Redis read failed, treating as miss")
		}
		return domain.CacheEntry{}, false, nil
	}

	var envelope redisEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry, treating as miss")
		return domain.CacheEntry{}, false, nil
	}

	return envelope.Value, true, nil
}

// Has reports whether key exists. Backend failures degrade to false.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefixed(key)).Result()
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Redis exists failed")
		return false, nil
	}
	return n > 0, nil
}

// Delete removes key, reporting whether it was present. Backend failures
// degrade to false.
func (c *RedisCache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Del(ctx, c.prefixed(key)).Result()
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Redis delete failed")
		return false, nil
	}
	return n > 0, nil
}

// Clear removes every key under the configured prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

// Size counts the keys under the configured prefix. Backend failures degrade
// to zero.
func (c *RedisCache) Size(ctx context.Context) (int, error) {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Redis scan failed")
		return 0, nil
	}
	return len(keys), nil
}

// Stats enumerates keys under the prefix and collects their write timestamps.
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	connected := c.client.Ping(ctx).Err() == nil
	stats := Stats{Connected: &connected}
	if !connected {
		return stats, nil
	}

	keys, err := c.scanKeys(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Redis scan failed")
		return stats, nil
	}

	for _, full := range keys {
		stats.Keys = append(stats.Keys, c.unprefixed(full))

		data, err := c.client.Get(ctx, full).Bytes()
		if err != nil {
			stats.Timestamps = append(stats.Timestamps, time.Time{})
			continue
		}
		var envelope redisEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			stats.Timestamps = append(stats.Timestamps, time.Time{})
			continue
		}
		stats.Timestamps = append(stats.Timestamps, envelope.Timestamp)
	}

	stats.Size = len(stats.Keys)
	return stats, nil
}

// Close releases the underlying client connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// scanKeys enumerates all keys under the configured prefix using SCAN.
func (c *RedisCache) scanKeys(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// prefixed namespaces a logical key for storage.
func (c *RedisCache) prefixed(key string) string {
	return c.prefix + key
}

// unprefixed recovers the logical key from a stored key.
func (c *RedisCache) unprefixed(full string) string {
	return strings.TrimPrefix(full, c.prefix)
}

// Ensure RedisCache implements Cache at compile time.
var _ Cache = (*RedisCache)(nil)
