package filterengine

import (
	"testing"

	"github.com/logdeck/core/internal/filterset"
)

func TestCacheReturnsSameEngineForSameKey(t *testing.T) {
	c := NewCache(4)
	filters := []filterset.Filter{
		{ID: "a", Pattern: "error", IsInclude: true, IsEnabled: true},
	}

	e1, err := c.GetOrCompile(filters, "boot")
	if err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	e2, err := c.GetOrCompile(filters, "boot")
	if err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	if e1 != e2 {
		t.Error("expected identical engine pointer for identical filters+query")
	}
}

func TestCacheDistinguishesQuery(t *testing.T) {
	c := NewCache(4)
	filters := []filterset.Filter{
		{ID: "a", Pattern: "error", IsInclude: true, IsEnabled: true},
	}

	e1, err := c.GetOrCompile(filters, "boot")
	if err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	e2, err := c.GetOrCompile(filters, "shutdown")
	if err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	if e1 == e2 {
		t.Error("expected distinct engines for distinct search queries")
	}
}

func TestCacheEvictsOldestBeyondMax(t *testing.T) {
	c := NewCache(1)
	f1 := []filterset.Filter{{ID: "a", Pattern: "one", IsInclude: true, IsEnabled: true}}
	f2 := []filterset.Filter{{ID: "b", Pattern: "two", IsInclude: true, IsEnabled: true}}

	if _, err := c.GetOrCompile(f1, ""); err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}
	if _, err := c.GetOrCompile(f2, ""); err != nil {
		t.Fatalf("GetOrCompile: %v", err)
	}

	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	if n != 1 {
		t.Errorf("expected cache size capped at 1, got %d", n)
	}
}
