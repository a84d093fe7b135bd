package project

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a project detail stays fresh after it was written.
const DefaultTTL = 3 * time.Minute

// Loader produces the value for a missing or expired key.
type Loader[V any] func(ctx context.Context) (V, error)

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a keyed store whose entries expire a fixed TTL after they were
// written. Reads never extend an entry's lifetime. Concurrent loads of the
// same key are coalesced.
type Cache[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry[V]
	loads   singleflight.Group
}

// NewCache builds a cache with the given TTL; zero uses DefaultTTL.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry[V]),
	}
}

// Lookup returns the fresh value for key without loading.
func (c *Cache[V]) Lookup(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(key)
}

func (c *Cache[V]) lookupLocked(key string) (V, bool) {
	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Get returns the cached value for key, or runs loader and stores its result
// with a fresh timestamp. A loader error is returned without touching the
// cache.
func (c *Cache[V]) Get(ctx context.Context, key string, loader Loader[V]) (V, error) {
	if v, ok := c.Lookup(key); ok {
		return v, nil
	}

	res, err, _ := c.loads.Do(key, func() (any, error) {
		// Another caller may have stored the key while we waited on the group.
		if v, ok := c.Lookup(key); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return v, err
		}
		c.Put(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Put stores value under key and restarts its expiry clock.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, storedAt: c.now()}
}

// Invalidate removes key. Missing keys are ignored.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
