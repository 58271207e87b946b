// Package fileindex implements the File Indexer (spec §4.2): it
// memory-maps a log file, builds a dense offset table of line starts, and
// supports line extraction, parallel filtered scanning, and minimap bucket
// computation over that table.
package fileindex

import (
	"bytes"
	"context"
	"io"
	"os"
	"runtime"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"

	"github.com/logdeck/core/internal/constants"
	"github.com/logdeck/core/internal/errs"
)

// Index owns a file's bytes (a read-only memory map, or a heap copy for
// files under the mmap threshold) plus its line offset table. The zero
// value is not usable; construct with Open or OpenWithThreshold.
type Index struct {
	file    *os.File
	mapping mmap.MMap
	data    []byte
	offsets []int
}

// Open maps path into memory read-only, using the package default mmap
// threshold (constants.MinMmapFileSize). The mapping and file handle are
// retained for the Index's lifetime; call Close when done.
func Open(path string) (*Index, error) {
	return OpenWithThreshold(path, constants.MinMmapFileSize)
}

// OpenWithThreshold is Open, but files smaller than threshold bytes are
// read directly into memory instead of mapped -- mapping overhead
// dominates for small files, and mmap-go rejects zero-length mappings
// outright.
func OpenWithThreshold(path string, threshold int64) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrOpenFailed, err.Error())
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.Wrap(errs.ErrOpenFailed, err.Error())
	}

	idx := &Index{file: f}

	if info.Size() == 0 {
		idx.data = nil
		return idx, nil
	}

	if info.Size() < threshold {
		data, err := io.ReadAll(f)
		if err != nil {
			f.Close()
			return nil, errs.Wrap(errs.ErrOpenFailed, err.Error())
		}
		idx.data = data
		return idx, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errs.Wrap(errs.ErrMapFailed, err.Error())
	}
	idx.mapping = m
	idx.data = []byte(m)
	return idx, nil
}

// Close unmaps the file and releases its handle.
func (idx *Index) Close() error {
	var mapErr error
	if idx.mapping != nil {
		mapErr = idx.mapping.Unmap()
	}
	fileErr := idx.file.Close()
	if mapErr != nil {
		return mapErr
	}
	return fileErr
}

// Len returns the number of indexed lines. Valid only after Build.
func (idx *Index) Len() int {
	return len(idx.offsets)
}

// Data exposes the raw file bytes (mapped or read), for callers that need
// direct byte slices rather than decoded lines.
func (idx *Index) Data() []byte {
	return idx.data
}

// Offsets exposes the full line offset table built by Build.
func (idx *Index) Offsets() []int {
	return idx.offsets
}

// ProgressFunc is invoked with a monotonically increasing progress value in
// [0,1] during Build. A final call with 1.0 is always made.
type ProgressFunc func(progress float64)

// Build performs a single pass over the mapped bytes recording the start
// offset of every line (spec §3): O[0]=0 if the map is non-empty, and O[i]
// for i>0 is the byte immediately after the (i-1)-th '\n', provided that
// byte is still within the map. A trailing '\n' at EOF does not introduce
// an empty final line.
//
// Progress is reported every ~1 MiB of input; ctx is checked at each
// checkpoint and Build returns ctx.Err() if cancelled, discarding the
// partial offset table per the indexer's cancellation-tolerant contract.
func (idx *Index) Build(ctx context.Context, onProgress ProgressFunc) error {
	n := len(idx.data)
	if n == 0 {
		if onProgress != nil {
			onProgress(1.0)
		}
		return nil
	}

	offsets := make([]int, 0, n/64+1)
	offsets = append(offsets, 0)

	lastCheckpoint := 0
	for i := 0; i < n; i++ {
		if idx.data[i] != '\n' {
			continue
		}
		if i+1 < n {
			offsets = append(offsets, i+1)
		}

		if i-lastCheckpoint >= constants.IndexProgressChunkSize {
			lastCheckpoint = i
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if onProgress != nil {
				onProgress(float64(i+1) / float64(n))
			}
			runtime.Gosched()
		}
	}

	idx.offsets = offsets
	if onProgress != nil {
		onProgress(1.0)
	}
	return nil
}

// GetLine returns line i of the full file, trailing '\r'/'\n' stripped,
// decoded as lossy UTF-8. ok is false if i is out of bounds.
func (idx *Index) GetLine(i int) (line string, ok bool) {
	if i < 0 || i >= len(idx.offsets) {
		return "", false
	}
	return idx.lineAt(idx.offsets[i]), true
}

// GetLineFromOffsets returns the line starting at offsets[i], with the end
// found by forward scan to the next '\n' or EOF -- this supports filtered
// views where successive offsets are not contiguous (spec §4.2).
func (idx *Index) GetLineFromOffsets(offsets []int, i int) (line string, ok bool) {
	if i < 0 || i >= len(offsets) {
		return "", false
	}
	return idx.lineAt(offsets[i]), true
}

// lineAt decodes the line beginning at byte offset start.
func (idx *Index) lineAt(start int) string {
	end := start
	for end < len(idx.data) && idx.data[end] != '\n' {
		end++
	}
	raw := idx.data[start:end]
	if len(raw) > 0 && raw[len(raw)-1] == '\r' {
		raw = raw[:len(raw)-1]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return string(bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError))))
}
