package cache

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newTestCache(maxSize int, ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewTTLCache[string, int](maxSize, ttl)
	c.now = func() time.Time { return clock.now }
	return c, clock
}

func TestTTLCacheSetGet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", 1)
	c.Set("a", 2)

	value, ok := c.Get("a")
	if !ok || value != 2 {
		t.Fatalf("expected 2, got %d ok=%v", value, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("expected one entry, got %d", c.Len())
	}
}

func TestTTLCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected key 'b' to be evicted")
	}
	if value, ok := c.Get("a"); !ok || value != 1 {
		t.Fatalf("expected key 'a' to remain")
	}
	if value, ok := c.Get("c"); !ok || value != 3 {
		t.Fatalf("expected key 'c' to remain")
	}
}

func TestTTLCacheExpires(t *testing.T) {
	c, clock := newTestCache(2, time.Minute)
	c.Set("a", 1)
	clock.advance(time.Minute + time.Second)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected key 'a' to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be removed")
	}
}

func TestTTLCacheGetOrCreate(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)
	created := 0
	create := func() int {
		created++
		return created * 10
	}

	if got := c.GetOrCreate("a", create); got != 10 {
		t.Fatalf("unexpected value: %d", got)
	}
	clock.advance(40 * time.Second)
	if got := c.GetOrCreate("a", create); got != 10 {
		t.Fatalf("expected cached value, got %d", got)
	}
	clock.advance(40 * time.Second)
	if got := c.GetOrCreate("a", create); got != 10 {
		t.Fatalf("expected expiry to be extended on access, got %d", got)
	}
	clock.advance(2 * time.Minute)
	if got := c.GetOrCreate("a", create); got != 20 {
		t.Fatalf("expected new value after expiry, got %d", got)
	}
}

func TestNewTTLCacheClampsArguments(t *testing.T) {
	c := NewTTLCache[string, int](0, 0)
	if c.maxSize != 1 || c.ttl != time.Second {
		t.Fatalf("unexpected clamp: size=%d ttl=%v", c.maxSize, c.ttl)
	}
}
