package cache

import "time"

// Cache is the read-through cache used for data-view listings and
// validation results within one CLI invocation. Instances are constructed
// explicitly and passed to whatever needs them; there is no process-wide
// singleton.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with a TTL. A zero ttl means the
	// configured default.
	Set(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all values from the cache.
	Clear()

	// Size returns the number of items currently stored.
	Size() int

	// Stats returns hit/miss counters.
	Stats() Stats
}

// Stats provides cache performance counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Sets      int64 `json:"sets"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// HitRatio returns hits over total lookups, or 0 with no lookups yet.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config holds cache sizing and expiry settings.
type Config struct {
	MaxItems   int           `json:"max_items"`
	DefaultTTL time.Duration `json:"default_ttl"`
}

// DefaultConfig is sized for a single CLI run against a handful of data
// views.
func DefaultConfig() Config {
	return Config{
		MaxItems:   256,
		DefaultTTL: 15 * time.Minute,
	}
}
