package filterengine

import (
	"testing"

	"github.com/logdeck/core/internal/filterset"
)

func mustEngine(t *testing.T, filters []filterset.Filter) *Engine {
	t.Helper()
	e, err := New(filters)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestMatchesExcludeWins(t *testing.T) {
	e := mustEngine(t, []filterset.Filter{
		{ID: "inc", Pattern: "error", IsInclude: true, IsEnabled: true},
		{ID: "exc", Pattern: "noisy", IsInclude: false, IsEnabled: true},
	})

	if e.Matches([]byte("this is a noisy error")) {
		t.Error("exclude filter should reject even though include matches")
	}
	if !e.Matches([]byte("a plain error")) {
		t.Error("expected include match to accept")
	}
	if e.Matches([]byte("nothing interesting")) {
		t.Error("expected no include match to reject")
	}
}

func TestMatchesNoIncludesAcceptsAll(t *testing.T) {
	e := mustEngine(t, []filterset.Filter{
		{ID: "exc", Pattern: "bad", IsInclude: false, IsEnabled: true},
	})
	if !e.Matches([]byte("totally fine")) {
		t.Error("expected accept with no include filters")
	}
	if e.Matches([]byte("this is bad")) {
		t.Error("expected reject from exclude filter")
	}
}

func TestMatchesSearchOverlay(t *testing.T) {
	e := mustEngine(t, []filterset.Filter{
		{ID: "inc", Pattern: "error", IsInclude: true, IsEnabled: true},
	})
	e, err := e.WithSearch("TIMEOUT")
	if err != nil {
		t.Fatalf("WithSearch: %v", err)
	}
	if !e.Matches([]byte("error: timeout waiting")) {
		t.Error("expected case-insensitive search match to accept alongside include")
	}
	if e.Matches([]byte("error: connection refused")) {
		t.Error("expected non-matching search to reject despite include match")
	}
}

func TestMatchesDisabledAndEmptyDropped(t *testing.T) {
	e := mustEngine(t, []filterset.Filter{
		{ID: "a", Pattern: "x", IsInclude: true, IsEnabled: false},
		{ID: "b", Pattern: "", IsInclude: true, IsEnabled: true},
	})
	if !e.Empty() {
		t.Error("expected disabled and empty-pattern filters to be dropped, leaving an empty engine")
	}
	if !e.Matches([]byte("anything")) {
		t.Error("expected empty engine to accept everything")
	}
}

func TestMatchColorContract(t *testing.T) {
	e := mustEngine(t, []filterset.Filter{
		{ID: "a", Pattern: "alpha", IsInclude: true, IsEnabled: true, Color: "#112233"},
		{ID: "b", Pattern: "beta", IsInclude: true, IsEnabled: true},
	})

	if color, ok := e.MatchColor([]byte("alpha event")); !ok || color != "#112233" {
		t.Errorf("expected #112233, got %q ok=%v", color, ok)
	}
	if color, ok := e.MatchColor([]byte("beta event")); !ok || color != "#fa5feb" {
		t.Errorf("expected sentinel default for filter b, got %q ok=%v", color, ok)
	}
	if _, ok := e.MatchColor([]byte("gamma event")); ok {
		t.Error("expected no color for a non-matching line")
	}
}

func TestMatchColorSearchOnlySentinel(t *testing.T) {
	e := mustEngine(t, nil)
	e, err := e.WithSearch("needle")
	if err != nil {
		t.Fatalf("WithSearch: %v", err)
	}
	color, ok := e.MatchColor([]byte("found the needle"))
	if !ok || color != "#fa5feb" {
		t.Errorf("expected sentinel color for search-only match, got %q ok=%v", color, ok)
	}
	if _, ok := e.MatchColor([]byte("nothing here")); ok {
		t.Error("expected no color when search does not match")
	}
}

func TestNewInvalidPatternError(t *testing.T) {
	_, err := New([]filterset.Filter{
		{ID: "bad", Pattern: "(unterminated", IsInclude: true, IsEnabled: true},
	})
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
}
