package cache

import (
	"context"
	"time"

	"recipebook-backend/pkg/logger"
)

// TTLConfig holds the expiry used for point reads and for paged collections.
type TTLConfig struct {
	Entity     time.Duration
	Collection time.Duration
}

func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Entity:     15 * time.Minute,
		Collection: 2 * time.Minute,
	}
}

// LoadFn fetches the value from the source of truth on a miss.
type LoadFn[T any] func(ctx context.Context) (T, error)

// GetOrLoad is a read-through lookup. Cache errors are logged and treated as misses,
// so the result always equals what load returns for the same key.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load LoadFn[T]) (T, error) {
	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache get failed", err, map[string]interface{}{"key": key})
	}
	if err == nil && found {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("cache set failed", err, map[string]interface{}{"key": key})
	}
	return value, nil
}
