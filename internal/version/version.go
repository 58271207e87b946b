// Package version provides version information shared by the cmd/ binaries.
package version

import (
	"fmt"
	"os"

	"github.com/logdeck/core/internal/protocol"
)

const (
	// Name of this tool.
	Name string = "logdeck"
	// Version of this tool.
	Version string = "0.1.0"
)

// String returns a plain text version string for logging and CLI output.
func String() string {
	return fmt.Sprintf("%s %s (protocol %s)", Name, Version, protocol.ProtocolVersion)
}

// PrintAndExit prints the version string and exits the process.
func PrintAndExit() {
	fmt.Println(String())
	os.Exit(0)
}
