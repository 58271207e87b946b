package filterengine

import (
	"sync"

	"github.com/logdeck/core/internal/parallel"
)

// CountMatches returns, for each compiled filter's id, how many of lines it
// alone would match -- ignoring include/exclude partitioning and any search
// overlay. This powers the per-filter match counts the UI shows next to
// each filter row (spec §4.1: "regardless of whether other filters are
// enabled").
func (e *Engine) CountMatches(lines [][]byte) map[string]int {
	counts := make(map[string]int, len(e.all))
	if len(e.all) == 0 || len(lines) == 0 {
		return counts
	}

	chunks := parallel.Chunks(len(lines), parallel.Workers())
	partials := make([]map[string]int, len(chunks))

	var wg sync.WaitGroup
	for ci, c := range chunks {
		ci, c := ci, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make(map[string]int, len(e.all))
			for i := c.Start; i < c.End; i++ {
				line := lines[i]
				for _, cf := range e.all {
					if cf.cp.Match(line) {
						local[cf.filter.ID]++
					}
				}
			}
			partials[ci] = local
		}()
	}
	wg.Wait()

	for _, local := range partials {
		for id, n := range local {
			counts[id] += n
		}
	}
	return counts
}

// FilterIndices returns the indices into lines that the engine accepts, in
// ascending order, computed with data parallelism across CPU cores (spec
// §4.1, §8 property 3: order-preserving).
func (e *Engine) FilterIndices(lines [][]byte) []int {
	if e.Empty() {
		all := make([]int, len(lines))
		for i := range lines {
			all[i] = i
		}
		return all
	}

	chunks := parallel.Chunks(len(lines), parallel.Workers())
	perChunk := make([][]int, len(chunks))

	var wg sync.WaitGroup
	for ci, c := range chunks {
		ci, c := ci, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			var hits []int
			for i := c.Start; i < c.End; i++ {
				if e.Matches(lines[i]) {
					hits = append(hits, i)
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
