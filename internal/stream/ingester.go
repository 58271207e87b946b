// Package stream implements the Live Stream Ingester (spec §4.3): it
// spawns and supervises the `adb logcat -v time` subprocess, applies a
// Filter Engine at ingest, and emits batched line notifications.
package stream

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/logdeck/core/internal/constants"
	"github.com/logdeck/core/internal/dlog"
	"github.com/logdeck/core/internal/errs"
	"github.com/logdeck/core/internal/filterengine"
	"github.com/logdeck/core/internal/io/pool"
)

// BatchFunc is invoked with a batch of newly accepted lines whenever the
// 100-line or 100ms flush bound is reached (spec §4.3).
type BatchFunc func(lines []string)

// AppendFunc is invoked once per accepted line, before batching, so the
// caller can append it to the shared live buffer under its own lock
// discipline (spec §3: Live Buffer is single-writer).
type AppendFunc func(line string)

// FlushPolicy is the dual-condition batching bound (spec §4.3): a batch is
// flushed once it holds Lines lines, or once Interval has elapsed since the
// last flush, whichever comes first. A zero value is not usable directly;
// Start substitutes the package defaults (constants.StreamFlushLineCount /
// constants.StreamFlushInterval) for any field left at zero.
type FlushPolicy struct {
	Lines    int
	Interval time.Duration
}

func (p FlushPolicy) withDefaults() FlushPolicy {
	if p.Lines <= 0 {
		p.Lines = constants.StreamFlushLineCount
	}
	if p.Interval <= 0 {
		p.Interval = constants.StreamFlushInterval
	}
	return p
}

// Ingester supervises one adb logcat child process.
type Ingester struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	cmd    *exec.Cmd
	done   chan struct{}
}

// New returns an idle Ingester.
func New() *Ingester {
	return &Ingester{}
}

// Start stops any previously running child (restart-stops-previous, spec
// §4.3), then spawns `adbPath logcat -v time` and launches the background
// read/filter/batch loop. engine may be nil, meaning every line is
// accepted. flush's zero fields fall back to the package defaults. Returns
// errs.ErrStreamStartFailed if the subprocess fails to spawn.
func (ing *Ingester) Start(ctx context.Context, adbPath string, engine *filterengine.Engine, flush FlushPolicy, onAppend AppendFunc, onBatch BatchFunc) error {
	ing.Stop()
	flush = flush.withDefaults()

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, adbPath, "logcat", "-v", "time")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return errs.Wrap(errs.ErrStreamStartFailed, err.Error())
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return errs.Wrap(errs.ErrStreamStartFailed, err.Error())
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return errs.Wrap(errs.ErrStreamStartFailed, err.Error())
	}

	ing.mu.Lock()
	ing.cancel = cancel
	ing.cmd = cmd
	ing.done = make(chan struct{})
	done := ing.done
	ing.mu.Unlock()

	go drainStderr(stderr)
	go ing.run(runCtx, stdout, engine, flush, onAppend, onBatch, done)

	return nil
}

// Stop signals the child process group to terminate and waits for the
// background loop to end at its next EOF. Idempotent.
func (ing *Ingester) Stop() {
	ing.mu.Lock()
	cancel := ing.cancel
	cmd := ing.cmd
	done := ing.done
	ing.cancel = nil
	ing.cmd = nil
	ing.done = nil
	ing.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if cmd != nil && cmd.Process != nil {
		if pgid, err := unix.Getpgid(cmd.Process.Pid); err == nil {
			unix.Kill(-pgid, syscall.SIGTERM)
		} else {
			cmd.Process.Kill()
		}
	}
	if done != nil {
		<-done
	}
}

func drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		dlog.Warn("adb stderr:", scanner.Text())
	}
}

func (ing *Ingester) run(ctx context.Context, stdout io.Reader, engine *filterengine.Engine, policy FlushPolicy, onAppend AppendFunc, onBatch BatchFunc, done chan struct{}) {
	defer close(done)

	buf := pool.GetScannerBuffer()
	defer pool.PutScannerBuffer(buf)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(*buf, constants.ScannerMaxLineLength)

	batch := make([]string, 0, policy.Lines)
	ticker := time.NewTicker(constants.StreamFlushTickerResolution)
	defer ticker.Stop()

	lines := make(chan string)
	go func() {
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				close(lines)
				return
			}
		}
		if err := scanner.Err(); err != nil {
			dlog.Warn("adb logcat read ended:", err)
		}
		close(lines)
	}()

	lastFlush := time.Now()
	flush := func() {
		if len(batch) == 0 {
			return
		}
		onBatch(batch)
		batch = make([]string, 0, policy.Lines)
		lastFlush = time.Now()
	}

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				flush()
				return
			}
			if engine == nil || engine.MatchesString(line) {
				onAppend(line)
				batch = append(batch, line)
				if len(batch) >= policy.Lines {
					flush()
				}
			}
		case <-ticker.C:
			if time.Since(lastFlush) >= policy.Interval {
				flush()
			}
		case <-ctx.Done():
			flush()
			return
		}
	}
}
