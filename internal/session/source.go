package session

import (
	"github.com/logdeck/core/internal/fileindex"
	"github.com/logdeck/core/internal/stream"
)

// source is the tagged-variant replacement for the original boolean+optional
// -pointer "is a stream active" design (spec §9 design notes): at most one
// of noSource/fileSource/streamSource is ever installed as the Controller's
// current source, so "file mode" and "stream mode" cannot both be half-true
// at once the way two independent nilable fields would allow.
type source interface {
	isSource()
}

// noSource means neither open_file nor start_stream has succeeded yet.
type noSource struct{}

func (noSource) isSource() {}

// fileSource is the source installed by open_file.
type fileSource struct {
	idx *fileindex.Index
	// filtered holds the Filtered Offset List (spec §3); nil means
	// "identity view over idx.Offsets()".
	filtered []int
}

func (*fileSource) isSource() {}

// activeOffsets returns the offsets the current view should use: the
// filtered subset if one is installed, else the full offset table.
func (f *fileSource) activeOffsets() []int {
	if f.filtered != nil {
		return f.filtered
	}
	return f.idx.Offsets()
}

// streamSource is the source installed by start_stream.
type streamSource struct {
	buffer *liveBuffer
	ing    *stream.Ingester
}

func (*streamSource) isSource() {}
