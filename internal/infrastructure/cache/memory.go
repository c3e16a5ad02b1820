package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	memoryShards          = 16
	memoryEvictionPercent = 10
)

// MemoryCache implements pkg/cache.Cache on top of sturdyc.
// sturdyc fixes the TTL per client, so one client is kept per distinct TTL.
// Values are JSON encoded so callers get a private copy on every Get.
type MemoryCache struct {
	capacity int

	mu      sync.RWMutex
	clients map[time.Duration]*sturdyc.Client[[]byte]
}

func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryCache{
		capacity: capacity,
		clients:  make(map[time.Duration]*sturdyc.Client[[]byte]),
	}
}

func (c *MemoryCache) client(ttl time.Duration) *sturdyc.Client[[]byte] {
	c.mu.RLock()
	cl, ok := c.clients[ttl]
	c.mu.RUnlock()
	if ok {
		return cl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cl, ok = c.clients[ttl]; ok {
		return cl
	}
	cl = sturdyc.New[[]byte](c.capacity, memoryShards, ttl, memoryEvictionPercent)
	c.clients[ttl] = cl
	return cl
}

func (c *MemoryCache) snapshot() []*sturdyc.Client[[]byte] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*sturdyc.Client[[]byte], 0, len(c.clients))
	for _, cl := range c.clients {
		out = append(out, cl)
	}
	return out
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	for _, cl := range c.snapshot() {
		raw, ok := cl.Get(key)
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return false, fmt.Errorf("decode cached %s: %w", key, err)
		}
		return true, nil
	}
	return false, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	// a key lives in exactly one client
	for _, cl := range c.snapshot() {
		cl.Delete(key)
	}
	c.client(ttl).Set(key, raw)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, cl := range c.snapshot() {
		for _, key := range keys {
			cl.Delete(key)
		}
	}
	return nil
}

// Keys lists every live key. Used by tests and diagnostics.
func (c *MemoryCache) Keys() []string {
	var keys []string
	for _, cl := range c.snapshot() {
		keys = append(keys, cl.ScanKeys()...)
	}
	return keys
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

func (c *MemoryCache) Close() error { return nil }
