// Package dlog provides logdeck's non-blocking, mode-switchable logger.
//
// It deliberately never writes to stdout: cmd/logdeckd multiplexes the JSON
// command-surface protocol over stdout, so any ambient log line written
// there would corrupt the protocol stream. dlog instead writes to stderr
// and, optionally, to a daily rotating log file under config.Common.LogDir
// -- the same two-sink design as the teacher's logger, with stdout swapped
// for stderr.
package dlog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/logdeck/core/internal/config"
	"github.com/logdeck/core/internal/constants"
)

const (
	infoStr  string = "INFO"
	warnStr  string = "WARN"
	errorStr string = "ERROR"
	fatalStr string = "FATAL"
	debugStr string = "DEBUG"
)

// Mode controls what gets logged and where.
type Mode struct {
	// Debug enables Debug-level log lines.
	Debug bool
	// Quiet suppresses everything below Error.
	Quiet bool
	// Nothing suppresses all logging (used by tests).
	Nothing bool
	// ToFile additionally logs to a daily file under config.Common.LogDir.
	ToFile bool

	logToStderr bool
}

var (
	mode Mode

	mutex sync.Mutex

	fd           *os.File
	fileWriter   *bufio.Writer
	stderrWriter *bufio.Writer

	lastDateStr string

	stderrBufCh chan string
	fileBufCh   chan buf
)

type buf struct {
	t       time.Time
	message string
}

// Start begins the background writer goroutines. ctx cancellation flushes
// and stops them.
func Start(ctx context.Context, myMode Mode) {
	mode = myMode
	mode.logToStderr = true

	if mode.Nothing {
		return
	}

	stderrWriter = bufio.NewWriter(os.Stderr)
	stderrBufCh = make(chan string, runtime.NumCPU()*constants.LoggerBufferChannelMultiplier)
	go writeToStderr(ctx)

	if mode.ToFile && config.Common != nil && config.Common.LogDir != "" {
		fileBufCh = make(chan buf, runtime.NumCPU()*constants.LoggerBufferChannelMultiplier)
		go writeToFile(ctx)
	}
}

// Info logs an informational message.
func Info(args ...interface{}) string { return log(infoStr, args) }

// Warn logs a warning.
func Warn(args ...interface{}) string { return log(warnStr, args) }

// Error logs an error.
func Error(args ...interface{}) string { return log(errorStr, args) }

// Debug logs a debug message, a no-op unless Mode.Debug is set.
func Debug(args ...interface{}) string {
	if !mode.Debug {
		return ""
	}
	return log(debugStr, args)
}

// FatalExit logs a fatal message and exits the process. Only cmd/ binaries
// may call this; library code must always return an error instead.
func FatalExit(args ...interface{}) {
	log(fatalStr, args)
	time.Sleep(100 * time.Millisecond)
	mutex.Lock()
	defer mutex.Unlock()
	closeFileWriter()
	os.Exit(3)
}

func log(severity string, args []interface{}) string {
	if mode.Nothing {
		return ""
	}
	if mode.Quiet && severity != errorStr && severity != fatalStr {
		return ""
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, severity)
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			parts = append(parts, v)
		case error:
			parts = append(parts, v.Error())
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	message := strings.Join(parts, "|")
	write(severity, message)
	return message
}

func write(severity, message string) {
	if mode.logToStderr && stderrBufCh != nil {
		stderrBufCh <- fmt.Sprintf("logdeck|%s|%s\n", severity, message)
	}
	if mode.ToFile && fileBufCh != nil {
		now := time.Now()
		fileBufCh <- buf{
			t:       now,
			message: fmt.Sprintf("%s|%s|%s\n", severity, now.Format("20060102-150405"), message),
		}
	}
}

func writeToStderr(ctx context.Context) {
	for {
		select {
		case message := <-stderrBufCh:
			stderrWriter.WriteString(message)
		case <-time.After(100 * time.Millisecond):
			stderrWriter.Flush()
		case <-ctx.Done():
			flushStderr()
			return
		}
	}
}

func flushStderr() {
	for {
		select {
		case message := <-stderrBufCh:
			stderrWriter.WriteString(message)
		default:
			stderrWriter.Flush()
			return
		}
	}
}

func writeToFile(ctx context.Context) {
	for {
		select {
		case b := <-fileBufCh:
			dateStr := b.t.Format("20060102")
			w := currentFileWriter(dateStr)
			w.WriteString(b.message)
		case <-ctx.Done():
			mutex.Lock()
			if fileWriter != nil {
				fileWriter.Flush()
			}
			mutex.Unlock()
			return
		}
	}
}

func currentFileWriter(dateStr string) *bufio.Writer {
	if dateStr == lastDateStr && fileWriter != nil {
		return fileWriter
	}
	return rotateFileWriter(dateStr)
}

func rotateFileWriter(dateStr string) *bufio.Writer {
	mutex.Lock()
	defer mutex.Unlock()

	closeFileWriter()

	if _, err := os.Stat(config.Common.LogDir); os.IsNotExist(err) {
		if err := os.MkdirAll(config.Common.LogDir, 0o755); err != nil {
			panic(err)
		}
	}

	logFile := fmt.Sprintf("%s/logdeck-%s.log", config.Common.LogDir, dateStr)
	newFd, err := os.OpenFile(logFile, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		panic(err)
	}

	fd = newFd
	fileWriter = bufio.NewWriter(fd)
	lastDateStr = dateStr
	return fileWriter
}

func closeFileWriter() {
	if fileWriter != nil {
		fileWriter.Flush()
	}
	if fd != nil {
		fd.Close()
	}
}
