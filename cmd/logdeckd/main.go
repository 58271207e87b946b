// Package main provides the logdeckd daemon: a headless log-viewing engine
// that speaks the JSON-line command surface (spec §6) over stdin/stdout.
// A frontend (e.g. an Electron/Tauri shell) spawns logdeckd, sends one JSON
// request object per stdin line, and reads one JSON response or event
// object per stdout line.
package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/logdeck/core/internal/config"
	"github.com/logdeck/core/internal/constants"
	"github.com/logdeck/core/internal/dlog"
	"github.com/logdeck/core/internal/session"
	"github.com/logdeck/core/internal/stream"
	"github.com/logdeck/core/internal/version"
)

func main() {
	var args config.Args
	var displayVersion bool

	flag.StringVar(&args.LogDir, "logDir", "", "Log dir")
	flag.StringVar(&args.LogLevel, "logLevel", config.DefaultLogLevel, "Log level")
	flag.BoolVar(&args.Debug, "debug", false, "Enable debug logging")
	flag.StringVar(&args.AdbPath, "adbPath", config.DefaultAdbPath, "Path to the adb executable")
	flag.IntVar(&args.MinimapBuckets, "minimapBuckets", 0, "Default minimap bucket count")
	flag.IntVar(&args.StreamFlushLine, "streamFlushLines", 0, "Stream batch flush line count")
	flag.IntVar(&args.StreamFlushInterval, "streamFlushIntervalMS", 0, "Stream batch flush interval, in milliseconds")
	flag.BoolVar(&displayVersion, "version", false, "Display version")
	flag.Parse()

	if displayVersion {
		version.PrintAndExit()
	}

	config.Setup(&args)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dlog.Start(ctx, dlog.Mode{Debug: config.Common.Debug, ToFile: config.Common.ToFile})

	events := make(chan session.Event, constants.EventChannelSize)
	flush := stream.FlushPolicy{
		Lines:    config.Engine.StreamFlushLines,
		Interval: time.Duration(config.Engine.StreamFlushIntervalMS) * time.Millisecond,
	}
	controller := session.New(config.Engine.AdbPath, config.Engine.MmapThreshold, flush, events)

	out := bufio.NewWriter(os.Stdout)
	var outMu sync.Mutex

	go drainEvents(ctx, events, out, &outMu)

	runCommandLoop(ctx, controller, out, &outMu)

	cancel()
}
