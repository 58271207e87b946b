package constants

import "time"

// Timeout and interval constants.
const (
	// StreamFlushInterval is the "at least 100ms elapsed" half of the
	// stream batching bound (spec §4.3).
	StreamFlushInterval = 100 * time.Millisecond

	// StreamFlushTickerResolution is how often the ingester checks whether
	// StreamFlushInterval has elapsed for a non-empty batch.
	StreamFlushTickerResolution = 10 * time.Millisecond
)
