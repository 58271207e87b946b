package constants

// Numeric limits and default configuration values.
const (
	// StreamFlushLineCount is the "100 lines" half of the stream batching
	// bound (spec §4.3).
	StreamFlushLineCount = 100

	// DefaultMinimapBuckets is used when a get_minimap_data request omits buckets.
	DefaultMinimapBuckets = 100

	// MinMmapFileSize is the smallest file size for which mapping the file
	// is worthwhile; below it the file is read directly into memory instead.
	MinMmapFileSize = 4096

	// DefaultSentinelColor is the color returned for a line that matched
	// only via the search overlay, or via an include filter with no color
	// set (spec §4.1).
	DefaultSentinelColor = "#fa5feb"
)
