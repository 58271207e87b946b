package session

import (
	"sync"

	"github.com/logdeck/core/internal/fileindex"
	"github.com/logdeck/core/internal/filterengine"
	"github.com/logdeck/core/internal/parallel"
)

// minimapOverLines applies the same bucket algorithm as fileindex.Index.Minimap
// (spec §4.2) to an in-memory slice of decoded lines, for stream-mode
// get_minimap_data (spec §4.4).
func minimapOverLines(engine *filterengine.Engine, lines []string, buckets int) []fileindex.MinimapBucket {
	n := len(lines)
	if buckets <= 0 {
		return nil
	}
	if n == 0 {
		return make([]fileindex.MinimapBucket, buckets)
	}

	bucketSize := (n + buckets - 1) / buckets
	ranges := parallel.Chunks(n, buckets)
	result := make([]fileindex.MinimapBucket, buckets)

	var wg sync.WaitGroup
	for bi, r := range ranges {
		bi, r := bi, r
		wg.Add(1)
		go func() {
			defer wg.Done()
			result[bi] = bucketOverLines(engine, lines, r.Start, r.End, bucketSize)
		}()
	}
	wg.Wait()

	return result
}

func bucketOverLines(engine *filterengine.Engine, lines []string, start, end, bucketSize int) fileindex.MinimapBucket {
	if end <= start {
		return fileindex.MinimapBucket{}
	}
	count := 0
	color := ""
	for i := start; i < end; i++ {
		if c, ok := engine.MatchColorString(lines[i]); ok {
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
	return fileindex.MinimapBucket{
		Intensity: float64(count) / float64(size),
		Color:     color,
		Count:     count,
	}
}
