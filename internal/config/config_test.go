package config

import "testing"

func TestSetupDefaults(t *testing.T) {
	Setup(&Args{})

	if Common.LogLevel != DefaultLogLevel {
		t.Errorf("expected default log level %q, got %q", DefaultLogLevel, Common.LogLevel)
	}
	if Engine.AdbPath != DefaultAdbPath {
		t.Errorf("expected default adb path %q, got %q", DefaultAdbPath, Engine.AdbPath)
	}
	if Engine.StreamFlushLines != 100 {
		t.Errorf("expected default stream flush line count 100, got %d", Engine.StreamFlushLines)
	}
}

func TestSetupArgsOverrideDefaults(t *testing.T) {
	Setup(&Args{
		AdbPath:             "/opt/android/platform-tools/adb",
		MinimapBuckets:      50,
		LogLevel:            "debug",
		StreamFlushLine:     250,
		StreamFlushInterval: 500,
	})

	if Engine.AdbPath != "/opt/android/platform-tools/adb" {
		t.Errorf("expected overridden adb path, got %q", Engine.AdbPath)
	}
	if Engine.MinimapDefaultBuckets != 50 {
		t.Errorf("expected overridden minimap bucket count, got %d", Engine.MinimapDefaultBuckets)
	}
	if Common.LogLevel != "debug" {
		t.Errorf("expected overridden log level, got %q", Common.LogLevel)
	}
	if Engine.StreamFlushLines != 250 {
		t.Errorf("expected overridden stream flush line count 250, got %d", Engine.StreamFlushLines)
	}
	if Engine.StreamFlushIntervalMS != 500 {
		t.Errorf("expected overridden stream flush interval 500, got %d", Engine.StreamFlushIntervalMS)
	}
}
