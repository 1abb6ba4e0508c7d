package cache

import (
	"sync"
	"time"
)

type item struct {
	value      interface{}
	expiresAt  time.Time
	lastAccess time.Time
}

// MemoryCache is an in-memory Cache with TTL expiry and least-recently-used
// eviction once MaxItems is reached. Concurrent validation workers may race
// on the same key, so every operation is a single critical section under
// one lock; there is no nested locking.
type MemoryCache struct {
	mu     sync.RWMutex
	items  map[string]*item
	config Config
	stats  Stats
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(config Config) *MemoryCache {
	if config.MaxItems <= 0 {
		config.MaxItems = DefaultConfig().MaxItems
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultConfig().DefaultTTL
	}
	return &MemoryCache{
		items:  make(map[string]*item),
		config: config,
	}
}

// Get retrieves a value, expiring it lazily if its TTL has passed.
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, exists := c.items[key]
	if !exists {
		c.stats.Misses++
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		delete(c.items, key)
		c.stats.Misses++
		c.stats.Evictions++
		return nil, false
	}

	it.lastAccess = time.Now()
	c.stats.Hits++
	return it.value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.config.DefaultTTL
	}

	if _, exists := c.items[key]; !exists && len(c.items) >= c.config.MaxItems {
		c.evictOldestLocked()
	}

	now := time.Now()
	c.items[key] = &item{
		value:      value,
		expiresAt:  now.Add(ttl),
		lastAccess: now,
	}
	c.stats.Sets++
}

// Delete removes a key.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear drops every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*item)
}

// Size returns the current item count.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns a copy of the counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := c.stats
	stats.Size = len(c.items)
	return stats
}

// evictOldestLocked removes the least recently used entry. Caller holds
// the write lock.
func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestAccess time.Time
	for key, it := range c.items {
		if oldestKey == "" || it.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = it.lastAccess
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
		c.stats.Evictions++
	}
}
