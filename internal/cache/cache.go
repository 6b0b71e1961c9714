// Package cache provides a small in-process TTL cache with an injected clock,
// owned by the constructing service rather than package-level state so that
// entry lifetime is controllable in tests.
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a bounded map cache where every entry expires after a fixed duration.
// When the entry limit is reached, the entry closest to expiry is evicted.
// Safe for concurrent use.
type TTL[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	now        Clock
}

// New creates a TTL cache. maxEntries <= 0 means unbounded.
// now may be nil, in which case time.Now is used.
func New[V any](ttl time.Duration, maxEntries int, now Clock) *TTL[V] {
	if now == nil {
		now = time.Now
	}
	return &TTL[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL, evicting if at capacity.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Len returns the number of stored entries, expired ones included.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops all expired entries; if none were expired, it drops the
// entry closest to expiry. Caller must hold the lock.
func (c *TTL[V]) evictLocked() {
	now := c.now()
	removed := false
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed = true
		}
	}
	if removed {
		return
	}

	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey = k
			oldest = e.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
