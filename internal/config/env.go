package config

import (
	"os"
	"strconv"
)

// Env returns true when a given environment variable is set to "yes".
func Env(env string) bool {
	return os.Getenv(env) == "yes"
}

// applyEnv overlays LOGDECK_-prefixed environment variables onto defaults.
func applyEnv(common *CommonConfig, engine *EngineConfig) {
	if v := os.Getenv("LOGDECK_LOG_DIR"); v != "" {
		common.LogDir = v
		common.ToFile = true
	}
	if v := os.Getenv("LOGDECK_LOG_LEVEL"); v != "" {
		common.LogLevel = v
	}
	if Env("LOGDECK_DEBUG") {
		common.Debug = true
	}
	if v := os.Getenv("LOGDECK_ADB_PATH"); v != "" {
		engine.AdbPath = v
	}
	if v := os.Getenv("LOGDECK_STREAM_FLUSH_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			engine.StreamFlushLines = n
		}
	}
	if v := os.Getenv("LOGDECK_STREAM_FLUSH_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			engine.StreamFlushIntervalMS = n
		}
	}
	if v := os.Getenv("LOGDECK_MINIMAP_BUCKETS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			engine.MinimapDefaultBuckets = n
		}
	}
}
