package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewLRU[string](10, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Fatalf("expected miss for unknown key")
	}

	c.Set("a", "one")
	got, found := c.Get("a")
	if !found || got != "one" {
		t.Fatalf("expected hit with 'one', got %q found=%v", got, found)
	}

	c.Set("a", "two")
	if got, _ := c.Get("a"); got != "two" {
		t.Fatalf("expected overwrite to 'two', got %q", got)
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1, got %d", c.Size())
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)
	c.Set("k", 1)
	time.Sleep(20 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Fatalf("expected entry to expire")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, found := c.Get("b"); found {
		t.Fatalf("expected 'b' to be evicted")
	}
	if _, found := c.Get("a"); !found {
		t.Fatalf("expected 'a' to survive")
	}
	if _, found := c.Get("c"); !found {
		t.Fatalf("expected 'c' to be present")
	}
}

func TestDelete(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("k", 1)
	c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Fatalf("expected deleted key to miss")
	}
	// Deleting an absent key is a no-op.
	c.Delete("absent")
}

func TestCleanExpired(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Fatalf("expected 2 cleaned, got %d", cleaned)
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1 after cleanup, got %d", c.Size())
	}
}
