// Package main provides logdeckctl, a manual test client for logdeckd's
// JSON-line command surface (spec §6). It spawns logdeckd, sends a single
// request built from its flags, prints whatever comes back on stdout until
// a matching response id arrives, then exits.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/logdeck/core/internal/protocol"
	"github.com/logdeck/core/internal/version"
)

func main() {
	var daemonPath string
	var command string
	var payloadJSON string
	var displayVersion bool

	flag.StringVar(&daemonPath, "daemon", "logdeckd", "Path to the logdeckd binary")
	flag.StringVar(&command, "command", "", "Command to send, e.g. open_file")
	flag.StringVar(&payloadJSON, "payload", "{}", "JSON payload for the command")
	flag.BoolVar(&displayVersion, "version", false, "Display version")
	flag.Parse()

	if displayVersion {
		version.PrintAndExit()
	}

	if command == "" {
		fmt.Fprintln(os.Stderr, "logdeckctl: -command is required")
		os.Exit(2)
	}

	cmd := exec.Command(daemonPath)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logdeckctl:", err)
		os.Exit(1)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logdeckctl:", err)
		os.Exit(1)
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "logdeckctl: failed to start daemon:", err)
		os.Exit(1)
	}

	req := protocol.Request{
		ID:      json.RawMessage(`"logdeckctl-1"`),
		Command: command,
		Payload: json.RawMessage(payloadJSON),
	}
	line, err := json.Marshal(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logdeckctl: invalid payload:", err)
		os.Exit(1)
	}

	go func() {
		fmt.Fprintln(stdin, string(line))
		stdin.Close()
	}()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		fmt.Println(scanner.Text())

		var resp protocol.Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err == nil && string(resp.ID) == string(req.ID) {
			break
		}
	}

	cmd.Process.Kill()
	cmd.Wait()
}
