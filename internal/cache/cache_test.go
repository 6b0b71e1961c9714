package cache

import (
	"testing"
	"time"
)

// fakeClock is an adjustable clock for expiry tests.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTTL_GetSet(t *testing.T) {
	clk := newFakeClock()
	c := New[int](time.Minute, 0, clk.now)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("a", 42)
	got, ok := c.Get("a")
	if !ok || got != 42 {
		t.Fatalf("expected hit with 42, got %d ok=%v", got, ok)
	}
}

func TestTTL_Expiry(t *testing.T) {
	clk := newFakeClock()
	c := New[string](time.Minute, 0, clk.now)

	c.Set("a", "x")

	clk.advance(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired too early")
	}

	clk.advance(2 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestTTL_EvictsAtCapacity(t *testing.T) {
	clk := newFakeClock()
	c := New[int](time.Minute, 2, clk.now)

	c.Set("a", 1)
	clk.advance(time.Second)
	c.Set("b", 2)
	clk.advance(time.Second)
	c.Set("c", 3) // over capacity: "a" is closest to expiry

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry must survive eviction")
	}
}

func TestTTL_EvictionPrefersExpired(t *testing.T) {
	clk := newFakeClock()
	c := New[int](time.Minute, 2, clk.now)

	c.Set("a", 1)
	c.Set("b", 2)

	clk.advance(2 * time.Minute) // both expired
	c.Set("c", 3)

	if _, ok := c.Get("c"); !ok {
		t.Fatal("fresh entry must be readable")
	}
	if c.Len() != 1 {
		t.Errorf("expired entries should be swept on eviction, len=%d", c.Len())
	}
}
