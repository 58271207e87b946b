package filterengine

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/logdeck/core/internal/filterset"
)

// Cache memoizes compiled Engines by the exact (filters, search) the UI
// sent, so repeatedly re-applying the same filter set -- typical while a
// user toggles between saved presets -- skips recompiling every pattern.
// Keyed by xxhash of the filter set's wire shape plus the search query,
// since equal byte content always compiles to an equivalent Engine.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]*Engine
	order   []uint64
	max     int
}

// NewCache returns a Cache that retains at most max compiled engines,
// evicting the oldest insertion once full. max<=0 disables eviction.
func NewCache(max int) *Cache {
	return &Cache{
		entries: make(map[uint64]*Engine),
		max:     max,
	}
}

// GetOrCompile returns the cached Engine for (filters, query) if present,
// compiling and storing it otherwise.
func (c *Cache) GetOrCompile(filters []filterset.Filter, query string) (*Engine, error) {
	key := cacheKey(filters, query)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	e, err := New(filters)
	if err != nil {
		return nil, err
	}
	if query != "" {
		e, err = e.WithSearch(query)
		if err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = e
		c.order = append(c.order, key)
		if c.max > 0 && len(c.order) > c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	return c.entries[key], nil
}

// cacheKey hashes the compiled-relevant fields of each filter plus the
// search query with xxhash, in filter order -- order matters because it
// decides which include filter's color wins a tie (spec §3).
func cacheKey(filters []filterset.Filter, query string) uint64 {
	h := xxhash.New()
	for _, f := range filters {
		if !f.Compilable() {
			continue
		}
		h.WriteString(f.ID)
		h.Write([]byte{0})
		h.WriteString(f.Pattern)
		h.Write([]byte{0})
		h.WriteString(strconv.FormatBool(f.IsInclude))
		h.Write([]byte{0})
		h.WriteString(f.Color)
		h.Write([]byte{0})
		h.WriteString(f.TextColor)
		h.Write([]byte{1})
	}
	h.Write([]byte{2})
	h.WriteString(query)
	return h.Sum64()
}
