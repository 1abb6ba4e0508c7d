package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())

	c.Set("key", "value", time.Minute)
	got, ok := c.Get("key")
	if !ok {
		t.Fatal("key not found after Set")
	}
	if got != "value" {
		t.Errorf("Get = %v, want value", got)
	}

	if _, ok := c.Get("absent"); ok {
		t.Error("Get returned a value for an absent key")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())

	c.Set("short", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry still returned")
	}
	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", stats.Evictions)
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c := NewMemoryCache(Config{MaxItems: 2, DefaultTTL: time.Minute})

	c.Set("a", 1, 0)
	time.Sleep(2 * time.Millisecond)
	c.Set("b", 2, 0)
	time.Sleep(2 * time.Millisecond)

	// touch a so b becomes the least recently used
	c.Get("a")
	time.Sleep(2 * time.Millisecond)

	c.Set("c", 3, 0)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newly set entry missing")
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())

	c.Set("a", 1, time.Minute)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v, want 2 hits, 1 miss, 1 set", stats)
	}
	if ratio := stats.HitRatio(); ratio < 0.66 || ratio > 0.67 {
		t.Errorf("hit ratio = %v, want ~0.667", ratio)
	}
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache(DefaultConfig())

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("size after Clear = %d, want 0", c.Size())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(Config{MaxItems: 64, DefaultTTL: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%16)
				c.Set(key, n, 0)
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Size() > 64 {
		t.Errorf("size %d exceeds the configured maximum", c.Size())
	}
}
