package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Cache.Get when the key is missing or has
// expired. It is a cache-level signal; the manager translates it into
// ErrNotFound.
var ErrCacheMiss = errors.New("session: cache miss")

// Cache is the expiring key-value store a session manager runs on.
// Increment must be atomic across concurrent callers and across server
// instances; it is the only concurrency-correctness dependency of the
// whole subsystem.
type Cache interface {
	Increment(ctx context.Context, counterKey string) (int64, error)
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	RefreshExpiry(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client redis.Cmdable
}

// NewRedisCache wraps a redis client (or anything command-compatible,
// e.g. a cluster client) as a session cache.
func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Increment(ctx context.Context, counterKey string) (int64, error) {
	return c.client.Incr(ctx, counterKey).Result()
}

func (c *RedisCache) SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// RefreshExpiry resets the TTL without touching the value. Refreshing
// an absent key is a silent no-op; callers must not use it to detect
// absence.
func (c *RedisCache) RefreshExpiry(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
