package fileindex

import (
	"sync"

	"github.com/logdeck/core/internal/filterengine"
	"github.com/logdeck/core/internal/parallel"
)

// MinimapBucket is one density bucket of the minimap overview (spec §3,
// §4.2). Color is empty when no line in the bucket matched the engine.
type MinimapBucket struct {
	Intensity float64 `json:"intensity"`
	Color     string  `json:"color,omitempty"`
	Count     int     `json:"count"`
}

// Minimap partitions the given offsets (filtered or full, caller's choice)
// into buckets contiguous ranges of size ceil(N/buckets), the last bucket
// possibly shorter, and computes each bucket's density and winning color.
// Computation is parallel across buckets (spec §4.2).
func (idx *Index) Minimap(engine *filterengine.Engine, buckets int, offsets []int) []MinimapBucket {
	n := len(offsets)
	if buckets <= 0 {
		return nil
	}
	if n == 0 {
		return make([]MinimapBucket, buckets)
	}

	bucketSize := (n + buckets - 1) / buckets
	ranges := parallel.Chunks(n, buckets)
	// Chunks may return fewer ranges than requested buckets if n < buckets
	// (each index gets its own bucket); pad the remainder as empty.
	result := make([]MinimapBucket, buckets)

	var wg sync.WaitGroup
	for bi, r := range ranges {
		bi, r := bi, r
		wg.Add(1)
		go func() {
			defer wg.Done()
			result[bi] = computeBucket(idx, engine, offsets, r.Start, r.End, bucketSize)
		}()
	}
	wg.Wait()

	return result
}

func computeBucket(idx *Index, engine *filterengine.Engine, offsets []int, start, end, bucketSize int) MinimapBucket {
	if end <= start {
		return MinimapBucket{}
	}

	count := 0
	color := ""
	for i := start; i < end; i++ {
		line := idx.lineAt(offsets[i])
		if c, ok := engine.MatchColorString(line); ok {
			count++
			if color == "" {
				color = c
			}
		}
	}

	size := end - start
	if size <= 0 {
		size = bucketSize
	}
	return MinimapBucket{
		Intensity: float64(count) / float64(size),
		Color:     color,
		Count:     count,
	}
}
