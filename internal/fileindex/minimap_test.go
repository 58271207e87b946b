package fileindex

import (
	"testing"

	"github.com/logdeck/core/internal/filterengine"
	"github.com/logdeck/core/internal/filterset"
)

func TestMinimapBucketCountsAndTotal(t *testing.T) {
	idx := openAndBuild(t, "error a\nplain b\nerror c\nplain d\nerror e\nplain f\n")
	engine, err := filterengine.New([]filterset.Filter{
		{ID: "e", Pattern: "error", IsInclude: true, IsEnabled: true, Color: "#ff0000"},
	})
	if err != nil {
		t.Fatalf("filterengine.New: %v", err)
	}

	buckets := idx.Minimap(engine, 3, idx.Offsets())
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}

	total := 0
	for i, b := range buckets {
		total += b.Count
		if b.Count > 0 && b.Color != "#ff0000" {
			t.Errorf("bucket %d color = %q, want #ff0000", i, b.Color)
		}
	}
	if total != 3 {
		t.Errorf("total matched count across buckets = %d, want 3", total)
	}
}

func TestMinimapEmptyRangeYieldsZeroBucket(t *testing.T) {
	idx := openAndBuild(t, "a\nb\n")
	engine, err := filterengine.New(nil)
	if err != nil {
		t.Fatalf("filterengine.New: %v", err)
	}
	// more buckets than lines: trailing buckets must be the zero value.
	buckets := idx.Minimap(engine, 5, idx.Offsets())
	if len(buckets) != 5 {
		t.Fatalf("got %d buckets, want 5", len(buckets))
	}
	last := buckets[4]
	if last.Count != 0 || last.Color != "" || last.Intensity != 0 {
		t.Errorf("expected zero-value trailing bucket, got %+v", last)
	}
}

func TestMinimapZeroBucketsReturnsNil(t *testing.T) {
	idx := openAndBuild(t, "a\nb\n")
	engine, err := filterengine.New(nil)
	if err != nil {
		t.Fatalf("filterengine.New: %v", err)
	}
	if got := idx.Minimap(engine, 0, idx.Offsets()); got != nil {
		t.Errorf("expected nil for buckets<=0, got %v", got)
	}
}
