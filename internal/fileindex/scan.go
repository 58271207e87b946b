package fileindex

import (
	"sync"

	"github.com/logdeck/core/internal/filterengine"
	"github.com/logdeck/core/internal/parallel"
)

// ApplyFilters scans the full offset table in parallel chunks, decoding
// each line and retaining the offsets whose line satisfies engine. Output
// preserves the original ascending order (spec §4.2).
func (idx *Index) ApplyFilters(engine *filterengine.Engine) []int {
	offsets := idx.offsets
	if engine.Empty() {
		out := make([]int, len(offsets))
		copy(out, offsets)
		return out
	}

	chunks := parallel.Chunks(len(offsets), parallel.Workers())
	perChunk := make([][]int, len(chunks))

	var wg sync.WaitGroup
	for ci, c := range chunks {
		ci, c := ci, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			var hits []int
			for i := c.Start; i < c.End; i++ {
				line := idx.lineAt(offsets[i])
				if engine.MatchesString(line) {
					hits = append(hits, offsets[i])
				}
			}
			perChunk[ci] = hits
		}()
	}
	wg.Wait()

	total := 0
	for _, hits := range perChunk {
		total += len(hits)
	}
	result := make([]int, 0, total)
	for _, hits := range perChunk {
		result = append(result, hits...)
	}
	return result
}
