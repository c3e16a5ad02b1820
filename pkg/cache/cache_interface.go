package cache

import (
	"context"
	"time"
)

// Cache is the contract of the shared key/value cache sitting in front of the catalog store.
// Implementations: Redis (shared across processes) and an in-process sturdyc client.
type Cache interface {
	// Get reads key and unmarshals it into dest.
	// found = false on a miss, dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
	Close() error
}
