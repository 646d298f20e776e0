// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Fatal("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", stats)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate = %v, want 50", c.HitRate())
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	c.SetWithTTL("short", "v", 50*time.Millisecond)
	if _, ok := c.Get("short"); !ok {
		t.Fatal("Expected entry to exist immediately after set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("Expected entry to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expired Get, want 0", c.Len())
	}
}

func TestCacheDelete(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")
	c.Delete("never-set")

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}

	if removed := c.Clear(); removed != 3 {
		t.Errorf("Clear removed %d, want 3", removed)
	}
	for i := 0; i < 3; i++ {
		if _, exists := c.Get(fmt.Sprintf("key%d", i)); exists {
			t.Errorf("Expected key%d to be cleared", i)
		}
	}
	stats := c.GetStats()
	if stats.Flushes != 1 || stats.TotalKeys != 0 {
		t.Errorf("stats = %+v, want 1 flush and 0 keys", stats)
	}
}

func TestCacheCleanupSweepsExpired(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	c.SetWithTTL("a", 1, time.Millisecond)
	c.Set("b", 2)
	time.Sleep(5 * time.Millisecond)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len = %d after cleanup, want 1", c.Len())
	}
	if c.GetStats().LastCleanup.IsZero() {
		t.Error("LastCleanup not recorded")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%10)
				c.Set(key, g)
				c.Get(key)
				if i%50 == 0 {
					c.Clear()
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	c.Close()
	c.Close()

	c.Set("still", "works")
	if _, ok := c.Get("still"); !ok {
		t.Error("cache should remain usable after Close")
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		Country *string
		Fuel    *int
		Micro   bool
	}
	usa := "USA"
	hydro := 1

	a := GenerateKey("capacity_by_fuel", params{Country: &usa, Fuel: &hydro})
	b := GenerateKey("capacity_by_fuel", params{Country: &usa, Fuel: &hydro})
	if a != b {
		t.Errorf("equal params produced different keys: %s vs %s", a, b)
	}

	tests := []struct {
		name   string
		method string
		p      params
	}{
		{"different method", "capacity_by_country", params{Country: &usa, Fuel: &hydro}},
		{"different micro", "capacity_by_fuel", params{Country: &usa, Fuel: &hydro, Micro: true}},
		{"nil country", "capacity_by_fuel", params{Fuel: &hydro}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateKey(tt.method, tt.p); got == a {
				t.Errorf("expected a different key, got %s", got)
			}
		})
	}
}

func TestCleanupInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{0, time.Minute},
		{time.Second, time.Second},
		{30 * time.Second, 30 * time.Second},
		{time.Hour, 5 * time.Minute},
	}
	for _, tt := range tests {
		if got := cleanupInterval(tt.ttl); got != tt.want {
			t.Errorf("cleanupInterval(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}
