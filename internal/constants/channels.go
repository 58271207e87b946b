package constants

// Channel buffer size constants.
const (
	// EventChannelSize is the buffer size for the session's event channel
	// (indexing-progress / adb-new-lines).
	EventChannelSize = 100

	// LoggerBufferChannelMultiplier scales the logger's internal channel
	// size by runtime.NumCPU() at startup.
	LoggerBufferChannelMultiplier = 100
)
