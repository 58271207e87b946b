package constants

// Buffer and chunk size constants in bytes.
const (
	// LineBufferInitialCapacity is the initial capacity for a scanned line buffer.
	LineBufferInitialCapacity = 4096

	// IndexProgressChunkSize is how many mapped bytes the indexer scans
	// between progress callbacks and cooperative scheduler yields
	// (spec §4.2: "every ~1 MiB of input").
	IndexProgressChunkSize = 1024 * 1024

	// ScannerMaxLineLength bounds a single line read from the adb subprocess,
	// to avoid unbounded memory growth on a pathological stream.
	ScannerMaxLineLength = 1024 * 1024
)
