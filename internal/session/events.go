package session

import "github.com/logdeck/core/internal/protocol"

// Event is a server-pushed notification the Command Surface layer drains
// and re-encodes as a protocol.Event JSON line (spec §6).
type Event struct {
	Name string
	Data interface{}
}

func indexingProgressEvent(progress float64) Event {
	return Event{
		Name: protocol.EventNameIndexingProgress,
		Data: protocol.EventIndexingProgress{Progress: progress},
	}
}

func adbNewLinesEvent(lines []string) Event {
	return Event{
		Name: protocol.EventNameAdbNewLines,
		Data: lines,
	}
}
