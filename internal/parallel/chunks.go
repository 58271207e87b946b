// Package parallel provides the shared data-parallel fan-out helper used by
// the Filter Engine's bulk operations and the File Indexer's scan/minimap
// passes (spec §4.1, §4.2: "MUST exploit data parallelism across CPU
// cores"). It is the Go-idiomatic replacement for the original Rust
// implementation's rayon::par_iter, modeled on the teacher's
// internal/io/fs worker-per-chunk partitioning.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Chunk is a contiguous [Start, End) index range.
type Chunk struct {
	Start, End int
}

// Chunks partitions [0, n) into up to workers contiguous, roughly equal
// ranges. It never returns more chunks than n, and returns none for n<=0.
func Chunks(n, workers int) []Chunk {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	size := (n + workers - 1) / workers
	chunks := make([]Chunk, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks
}

// Workers returns the default fan-out width: one worker per logical CPU.
func Workers() int {
	return runtime.NumCPU()
}

// Each runs fn once per chunk of [0, n), fanning out across Workers()
// goroutines via errgroup and returning the first error encountered (if
// any). fn must be safe to call concurrently for disjoint chunks.
func Each(n int, fn func(c Chunk) error) error {
	chunks := Chunks(n, Workers())
	if len(chunks) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			return fn(c)
		})
	}
	return g.Wait()
}
