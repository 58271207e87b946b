// Package filterengine implements the Filter Engine (spec §4.1): an
// immutable, compiled bundle of include/exclude filters plus an optional
// free-text search overlay, with a fixed-order matching contract and a
// color contract that agrees with it exactly (spec §8, property 4).
package filterengine

import (
	"github.com/logdeck/core/internal/constants"
	"github.com/logdeck/core/internal/errs"
	"github.com/logdeck/core/internal/filterset"
)

// compiledFilter pairs a source Filter with its compiled pattern, keeping
// the slice in input order -- order decides which include filter's color
// wins (spec §3).
type compiledFilter struct {
	filter filterset.Filter
	cp     *compiledPattern
}

// Engine is an immutable, compiled Filter Engine. The zero value (via New
// with no filters and no search) matches every line.
type Engine struct {
	includes []compiledFilter
	excludes []compiledFilter
	// all holds every compiled filter in original input order, used by
	// CountMatches which needs per-filter-alone semantics regardless of
	// include/exclude partitioning.
	all    []compiledFilter
	search *compiledPattern
}

// New compiles filters into an Engine. Disabled filters and filters with an
// empty pattern are dropped (spec §3). The first filter to fail compilation
// is reported as errs.ErrInvalidFilterRegex, wrapping its id and reason
// (spec §4.1).
func New(filters []filterset.Filter) (*Engine, error) {
	e := &Engine{}

	for _, f := range filters {
		if !f.Compilable() {
			continue
		}
		cp, err := compilePattern(f.Pattern)
		if err != nil {
			return nil, errs.NewFilterRegex(f.ID, err)
		}
		cf := compiledFilter{filter: f, cp: cp}
		e.all = append(e.all, cf)
		if f.IsInclude {
			e.includes = append(e.includes, cf)
		} else {
			e.excludes = append(e.excludes, cf)
		}
	}

	return e, nil
}

// WithSearch returns a copy of e with its search overlay set to query,
// wrapped as "(?i)<query>" (spec §4.1). An empty query clears the overlay.
// Fails with errs.ErrInvalidSearchRegex if query does not compile.
func (e *Engine) WithSearch(query string) (*Engine, error) {
	clone := *e
	if query == "" {
		clone.search = nil
		return &clone, nil
	}
	cp, err := compileSearch(query)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInvalidSearchRegex, err.Error())
	}
	clone.search = cp
	return &clone, nil
}

// HasIncludes reports whether e has at least one compiled include filter.
func (e *Engine) HasIncludes() bool { return len(e.includes) > 0 }

// HasSearch reports whether e has a compiled search overlay.
func (e *Engine) HasSearch() bool { return e.search != nil }

// Empty reports whether e has no filters and no search at all -- the case
// the Session Controller treats as "identity view over the full offsets"
// (spec §4.4: apply_filters with no enabled filters and empty search).
func (e *Engine) Empty() bool {
	return len(e.all) == 0 && e.search == nil
}

// Matches evaluates the fixed-order matching contract (spec §4.1):
//  1. any exclude match -> reject
//  2. search set and not matching -> reject
//  3. no includes -> accept
//  4. any include match -> accept, else reject
func (e *Engine) Matches(line []byte) bool {
	for _, cf := range e.excludes {
		if cf.cp.Match(line) {
			return false
		}
	}
	if e.search != nil && !e.search.Match(line) {
		return false
	}
	if len(e.includes) == 0 {
		return true
	}
	for _, cf := range e.includes {
		if cf.cp.Match(line) {
			return true
		}
	}
	return false
}

// MatchesString is a convenience wrapper over Matches for string lines.
func (e *Engine) MatchesString(line string) bool {
	return e.Matches([]byte(line))
}

// MatchColorString is a convenience wrapper over MatchColor for string lines.
func (e *Engine) MatchColorString(line string) (string, bool) {
	return e.MatchColor([]byte(line))
}

// MatchColor evaluates the color contract (spec §4.1), which re-applies the
// same exclusion/search gate as Matches before deciding a color, so a line
// this engine would reject is never colored and vice versa.
func (e *Engine) MatchColor(line []byte) (string, bool) {
	for _, cf := range e.excludes {
		if cf.cp.Match(line) {
			return "", false
		}
	}
	if e.search != nil && !e.search.Match(line) {
		return "", false
	}

	if len(e.includes) > 0 {
		for _, cf := range e.includes {
			if cf.cp.Match(line) {
				if cf.filter.Color != "" {
					return cf.filter.Color, true
				}
				return constants.DefaultSentinelColor, true
			}
		}
		return "", false
	}

	if e.search != nil {
		return constants.DefaultSentinelColor, true
	}

	return "", false
}
