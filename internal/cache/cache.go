// Package cache implements a bounded in-memory TTL cache for page content.
package cache

import (
	"sync"
	"time"
)

// Config controls cache capacity and entry lifetime.
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

type entry struct {
	value    string
	storedAt time.Time
}

// Cache is a mutex-guarded key/value store with read-time expiry and
// oldest-first eviction. Expired entries are purged lazily on Get; there is
// no background sweeper.
type Cache struct {
	mu      sync.Mutex
	store   map[string]entry
	ttl     time.Duration
	max     int
	nowFunc func() time.Time
}

// New builds a Cache. Non-positive values fall back to defaults
// (5 minute TTL, 500 entries).
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 500
	}
	return &Cache{
		store:   make(map[string]entry),
		ttl:     cfg.TTL,
		max:     cfg.MaxEntries,
		nowFunc: time.Now,
	}
}

// Get returns the value for key if it exists and has not expired.
// An expired entry is removed on the spot.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[key]
	if !ok {
		return "", false
	}
	if c.nowFunc().Sub(e.storedAt) >= c.ttl {
		delete(c.store, key)
		return "", false
	}
	return e.value, true
}

// Set inserts or overwrites the entry for key. Inserting a new key at
// capacity evicts exactly one entry, the one with the oldest timestamp.
// Overwriting an existing key never evicts.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.max {
		c.evictOldest()
	}
	c.store[key] = entry{value: value, storedAt: c.nowFunc()}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]entry)
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// evictOldest removes the entry with the smallest storedAt. Caller holds the
// lock. Ties are broken arbitrarily; exactly one entry is removed.
func (c *Cache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.store {
		if !found || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
			found = true
		}
	}
	if found {
		delete(c.store, oldestKey)
	}
}
