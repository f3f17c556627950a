// Package cache provides an in-process TTL cache used to memoize expensive
// paginated listing queries. Invalidation is coarse: any write to an entity
// type clears every cached page of that entity's listings by key prefix.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Config holds the cache configuration.
type Config struct {
	// DefaultTTL is the time-to-live applied to every entry on Set.
	DefaultTTL time.Duration
	// CleanupInterval is the period of the background sweep that removes
	// expired entries. Zero disables the sweep; expired entries are then
	// only removed lazily on Get.
	CleanupInterval time.Duration
	// MaxItems caps the number of entries. Zero means unbounded. When the
	// cap is reached, Set drops the incoming entry rather than evicting;
	// listing caches are invalidated wholesale on every write, so the cap
	// only guards against pathological filter churn.
	MaxItems int
	// OnEviction is called with the key of every removed entry. It runs
	// outside the cache's internal lock, so it may call back into the cache.
	OnEviction func(key string)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL cache keyed by string. An entry is visible only until its
// expiry; a Get after expiry behaves as a miss and removes the entry.
type Cache struct {
	config Config

	mu   sync.Mutex
	data map[string]entry

	done chan struct{}
	once sync.Once
}

// New creates a new Cache with the given config.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}

	c := &Cache{
		config: config,
		data:   make(map[string]entry),
		done:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.sweep(config.CleanupInterval)
	}
	return c
}

// Get returns the cached value for key. An expired entry is removed and
// reported as a miss. Absence is a normal result, not a failure.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	c.mu.Lock()

	e, ok := c.data[key]
	if !ok {
		c.mu.Unlock()
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.data, key)
		c.mu.Unlock()
		c.notifyEvicted(key)
		return nil, false
	}
	c.mu.Unlock()
	return e.value, true
}

// Set stores value under key with expiry now + DefaultTTL, overwriting any
// existing entry for that key.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && c.config.MaxItems > 0 && len(c.data) >= c.config.MaxItems {
		return
	}
	c.data[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes the entry for key, if present.
func (c *Cache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	_, ok := c.data[key]
	if ok {
		delete(c.data, key)
	}
	c.mu.Unlock()
	if ok {
		c.notifyEvicted(key)
	}
}

// ClearByPrefix removes every entry whose key starts with prefix, leaving
// unrelated entries untouched. An empty prefix clears the entire cache.
// This is the invalidation primitive used after every create/update/delete.
func (c *Cache) ClearByPrefix(ctx context.Context, prefix string) {
	c.ClearByFilter(ctx, func(key string) bool {
		return prefix == "" || strings.HasPrefix(key, prefix)
	})
}

// ClearByFilter removes every entry whose key satisfies the predicate.
func (c *Cache) ClearByFilter(_ context.Context, predicate func(key string) bool) {
	c.mu.Lock()
	var evicted []string
	for key := range c.data {
		if predicate(key) {
			delete(c.data, key)
			evicted = append(evicted, key)
		}
	}
	c.mu.Unlock()
	c.notifyEvicted(evicted...)
}

// Keys returns the current set of stored keys. Entries past their expiry are
// included until a Get or the background sweep removes them; only Get
// enforces expiry.
func (c *Cache) Keys(_ context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	return keys
}

// Size returns the number of stored entries, expired or not.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Close stops the background sweep goroutine. The cache remains usable.
func (c *Cache) Close() error {
	c.once.Do(func() {
		close(c.done)
	})
	return nil
}

// notifyEvicted fires the eviction callback for each key. It is called
// after c.mu is released so the callback may safely re-enter the cache.
func (c *Cache) notifyEvicted(keys ...string) {
	if c.config.OnEviction == nil {
		return
	}
	for _, key := range keys {
		c.config.OnEviction(key)
	}
}

func (c *Cache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			var evicted []string
			for key, e := range c.data {
				if now.After(e.expiresAt) {
					delete(c.data, key)
					evicted = append(evicted, key)
				}
			}
			c.mu.Unlock()
			c.notifyEvicted(evicted...)
		}
	}
}
