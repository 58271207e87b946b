// Package session implements the Session Controller (spec §4.4): it owns
// the mutually exclusive current data source (file or live stream, never
// both) and arbitrates the command surface operations against it.
package session

import (
	"context"
	"sync"

	"github.com/logdeck/core/internal/errs"
	"github.com/logdeck/core/internal/fileindex"
	"github.com/logdeck/core/internal/filterengine"
	"github.com/logdeck/core/internal/filterset"
	"github.com/logdeck/core/internal/stream"
)

// Controller is process-wide singleton state in a real daemon, but nothing
// here prevents constructing several for testing.
type Controller struct {
	mu            sync.RWMutex
	src           source
	events        chan Event
	adbPath       string
	mmapThreshold int64
	flush         stream.FlushPolicy
	cache         *filterengine.Cache
}

// New returns a Controller with no active source. adbPath names the adb
// executable the stream ingester will spawn (spec §6 subprocess contract).
// mmapThreshold is forwarded to fileindex.OpenWithThreshold for every
// opened file; flush is forwarded to every Ingester.Start call. events is
// drained by the Command Surface layer; sends are non-blocking relative to
// it via a buffered channel (internal/constants.EventChannelSize).
func New(adbPath string, mmapThreshold int64, flush stream.FlushPolicy, events chan Event) *Controller {
	return &Controller{
		src:           noSource{},
		events:        events,
		adbPath:       adbPath,
		mmapThreshold: mmapThreshold,
		flush:         flush,
		cache:         filterengine.NewCache(8),
	}
}

// Events exposes the read side of the controller's event stream.
func (c *Controller) Events() <-chan Event {
	return c.events
}

func (c *Controller) emit(e Event) {
	select {
	case c.events <- e:
	default:
		// Command Surface isn't draining fast enough; dropping a progress
		// tick or a line batch is preferable to blocking the scan/ingest
		// goroutine that produced it.
	}
}

func (c *Controller) swap(next source) source {
	c.mu.Lock()
	prev := c.src
	c.src = next
	c.mu.Unlock()
	return prev
}

func (c *Controller) snapshot() source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.src
}

// stopIfStream stops src's ingester if it is a streamSource. Safe to call
// with any source value.
func stopIfStream(src source) {
	if ss, ok := src.(*streamSource); ok {
		ss.ing.Stop()
	}
}

// OpenFile opens and indexes path, installing it as the current source. If
// a stream is active it is stopped first (spec §4.4). Returns the total
// line count.
func (c *Controller) OpenFile(ctx context.Context, path string) (int, error) {
	prev := c.snapshot()
	stopIfStream(prev)

	idx, err := fileindex.OpenWithThreshold(path, c.mmapThreshold)
	if err != nil {
		return 0, err
	}

	if err := idx.Build(ctx, func(p float64) {
		c.emit(indexingProgressEvent(p))
	}); err != nil {
		idx.Close()
		return 0, err
	}

	c.swap(&fileSource{idx: idx})
	return idx.Len(), nil
}

// ApplyFiltersResult is the wire-shaped result of apply_filters (spec §6).
type ApplyFiltersResult struct {
	VisibleCount int
	FilterCounts map[string]int
}

// ApplyFilters builds a Filter Engine from filters+search and applies it to
// the active source (spec §4.4).
func (c *Controller) ApplyFilters(filters []filterset.Filter, search string) (ApplyFiltersResult, error) {
	src := c.snapshot()

	switch s := src.(type) {
	case noSource:
		return ApplyFiltersResult{}, errs.ErrNoSource

	case *streamSource:
		engine, err := c.cache.GetOrCompile(filters, search)
		if err != nil {
			return ApplyFiltersResult{}, err
		}
		lines := s.buffer.snapshot()
		return ApplyFiltersResult{
			VisibleCount: len(lines),
			FilterCounts: countMatchesOverLines(engine, lines),
		}, nil

	case *fileSource:
		hasFilters := false
		for _, f := range filters {
			if f.Compilable() {
				hasFilters = true
				break
			}
		}
		if !hasFilters && search == "" {
			c.mu.Lock()
			if fs, ok := c.src.(*fileSource); ok {
				fs.filtered = nil
			}
			c.mu.Unlock()
			return ApplyFiltersResult{VisibleCount: s.idx.Len(), FilterCounts: map[string]int{}}, nil
		}

		engine, err := c.cache.GetOrCompile(filters, search)
		if err != nil {
			return ApplyFiltersResult{}, err
		}
		filtered := s.idx.ApplyFilters(engine)

		c.mu.Lock()
		if fs, ok := c.src.(*fileSource); ok && fs.idx == s.idx {
			fs.filtered = filtered
		}
		c.mu.Unlock()

		lines := make([]string, len(filtered))
		for i := range filtered {
			lines[i], _ = s.idx.GetLineFromOffsets(filtered, i)
		}
		return ApplyFiltersResult{
			VisibleCount: len(filtered),
			FilterCounts: countMatchesOverLines(engine, lines),
		}, nil

	default:
		return ApplyFiltersResult{}, errs.ErrNoSource
	}
}

// GetLogLines returns up to count lines from the active view, starting at
// start. Never fails on overshoot (spec §4.4).
func (c *Controller) GetLogLines(start, count int) ([]string, error) {
	src := c.snapshot()

	switch s := src.(type) {
	case noSource:
		return nil, errs.ErrNoSource

	case *streamSource:
		lines := s.buffer.snapshot()
		return sliceFrom(lines, start, count), nil

	case *fileSource:
		offsets := s.activeOffsets()
		if start < 0 {
			start = 0
		}
		if start >= len(offsets) {
			return []string{}, nil
		}
		end := start + count
		if end > len(offsets) {
			end = len(offsets)
		}
		window := offsets[start:end]
		out := make([]string, 0, len(window))
		for i := range window {
			line, _ := s.idx.GetLineFromOffsets(window, i)
			out = append(out, line)
		}
		return out, nil

	default:
		return nil, errs.ErrNoSource
	}
}

// StartStream clears the live buffer, builds an optional Engine, and starts
// the ingester (spec §4.4). Stops any previously active source first.
func (c *Controller) StartStream(ctx context.Context, filters []filterset.Filter, search string) error {
	prev := c.snapshot()
	stopIfStream(prev)

	var engine *filterengine.Engine
	hasFilters := false
	for _, f := range filters {
		if f.Compilable() {
			hasFilters = true
			break
		}
	}
	if hasFilters || search != "" {
		e, err := c.cache.GetOrCompile(filters, search)
		if err != nil {
			return err
		}
		engine = e
	}

	buf := newLiveBuffer()
	ing := stream.New()

	err := ing.Start(ctx, c.adbPath, engine, c.flush,
		func(line string) { buf.append(line) },
		func(batch []string) { c.emit(adbNewLinesEvent(batch)) },
	)
	if err != nil {
		return err
	}

	c.swap(&streamSource{buffer: buf, ing: ing})
	return nil
}

// StopStream stops the ingester but retains the buffer for subsequent
// get_log_lines calls (spec §4.4).
func (c *Controller) StopStream() error {
	src := c.snapshot()
	if ss, ok := src.(*streamSource); ok {
		ss.ing.Stop()
	}
	return nil
}

// GetMinimapData builds an Engine and computes density buckets over the
// active view (spec §4.4).
func (c *Controller) GetMinimapData(filters []filterset.Filter, search string, buckets int) ([]fileindex.MinimapBucket, error) {
	src := c.snapshot()

	engine, err := c.cache.GetOrCompile(filters, search)
	if err != nil {
		return nil, err
	}

	switch s := src.(type) {
	case noSource:
		return nil, errs.ErrNoSource
	case *fileSource:
		return s.idx.Minimap(engine, buckets, s.activeOffsets()), nil
	case *streamSource:
		return minimapOverLines(engine, s.buffer.snapshot(), buckets), nil
	default:
		return nil, errs.ErrNoSource
	}
}

func sliceFrom(lines []string, start, count int) []string {
	if start < 0 {
		start = 0
	}
	if start >= len(lines) {
		return []string{}
	}
	end := start + count
	if end > len(lines) {
		end = len(lines)
	}
	return append([]string(nil), lines[start:end]...)
}

func countMatchesOverLines(engine *filterengine.Engine, lines []string) map[string]int {
	bytesLines := make([][]byte, len(lines))
	for i, l := range lines {
		bytesLines[i] = []byte(l)
	}
	return engine.CountMatches(bytesLines)
}
