// Package config provides configuration management for the logdeck engine
// and its cmd/ binaries.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags
//  2. Environment variables (LOGDECK_ prefix)
//  3. Defaults
//
// This mirrors the teacher's config precedence but drops the config-file
// layer: logdeck has no persisted user preferences (spec.md's Non-goals
// explicitly exclude "persisted user preferences" as external-collaborator
// concerns), so there is nothing left for a file layer to own.
package config

import "github.com/logdeck/core/internal/constants"

const (
	// DefaultLogLevel is the log verbosity used when no override is given.
	DefaultLogLevel string = "info"
	// DefaultAdbPath is the executable name the stream ingester spawns.
	DefaultAdbPath string = "adb"
)

// Common holds configuration shared by every logdeck binary. Populated by
// Setup; nil until then.
var Common *CommonConfig

// Engine holds configuration specific to the log-access engine.
var Engine *EngineConfig

// CommonConfig is ambient configuration: logging destination and verbosity.
type CommonConfig struct {
	LogDir   string
	LogLevel string
	Debug    bool
	ToFile   bool
}

// EngineConfig is domain configuration for the Filter Engine, File Indexer,
// Live Stream Ingester and Session Controller.
type EngineConfig struct {
	// AdbPath is the executable invoked by the stream ingester (spec §4.3).
	AdbPath string
	// StreamFlushLines / StreamFlushIntervalMS are the batching bound from spec §4.3.
	StreamFlushLines      int
	StreamFlushIntervalMS int
	// MinimapDefaultBuckets is used when a request omits "buckets".
	MinimapDefaultBuckets int
	// MmapThreshold is the smallest file size the indexer will memory-map;
	// smaller files are read directly since mapping overhead dominates.
	MmapThreshold int64
}

func newDefaultCommonConfig() *CommonConfig {
	return &CommonConfig{
		LogDir:   "",
		LogLevel: DefaultLogLevel,
	}
}

func newDefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		AdbPath:               DefaultAdbPath,
		StreamFlushLines:      constants.StreamFlushLineCount,
		StreamFlushIntervalMS: int(constants.StreamFlushInterval.Milliseconds()),
		MinimapDefaultBuckets: constants.DefaultMinimapBuckets,
		MmapThreshold:         constants.MinMmapFileSize,
	}
}

// Setup builds Common and Engine from defaults, environment variables and
// flags (in that precedence order) and makes them globally accessible.
func Setup(args *Args) {
	common := newDefaultCommonConfig()
	engine := newDefaultEngineConfig()

	applyEnv(common, engine)
	applyArgs(args, common, engine)

	Common = common
	Engine = engine
}
