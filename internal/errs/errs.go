// Package errs provides the sentinel error catalogue and wrapping helpers
// shared by every logdeck component. Command Surface handlers map a
// returned error back to one of these sentinels (via errors.Is) to pick the
// wire "kind" string.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the command surface (spec §7).
var (
	// ErrOpenFailed means the file could not be opened for reading.
	ErrOpenFailed = errors.New("open failed")
	// ErrMapFailed means the file could be opened but not memory-mapped.
	ErrMapFailed = errors.New("map failed")
	// ErrInvalidFilterRegex means a filter's pattern failed to compile.
	ErrInvalidFilterRegex = errors.New("invalid filter regex")
	// ErrInvalidSearchRegex means the search query failed to compile.
	ErrInvalidSearchRegex = errors.New("invalid search regex")
	// ErrNoSource means no file is open and no stream is active.
	ErrNoSource = errors.New("no source")
	// ErrStreamStartFailed means the adb subprocess could not be spawned.
	ErrStreamStartFailed = errors.New("stream start failed")
)

// Wrap wraps err with msg, preserving it for errors.Is/errors.As.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// FilterRegex reports an invalid filter pattern, naming the offending filter id.
type FilterRegex struct {
	ID     string
	Reason error
}

func (e *FilterRegex) Error() string {
	return fmt.Sprintf("filter %q: invalid regex: %v", e.ID, e.Reason)
}

func (e *FilterRegex) Unwrap() error {
	return ErrInvalidFilterRegex
}

// NewFilterRegex builds a FilterRegex error for the given filter id.
func NewFilterRegex(id string, reason error) error {
	return &FilterRegex{ID: id, Reason: reason}
}

// Is reports whether err (or any error it wraps) is target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to extract a specific error type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
