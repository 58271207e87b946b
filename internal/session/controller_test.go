package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logdeck/core/internal/constants"
	"github.com/logdeck/core/internal/filterset"
	"github.com/logdeck/core/internal/stream"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newTestController() *Controller {
	return New("adb", constants.MinMmapFileSize, stream.FlushPolicy{}, make(chan Event, constants.EventChannelSize))
}

func TestOpenFileReturnsLineCount(t *testing.T) {
	c := newTestController()
	path := writeTempFile(t, "one\ntwo\nthree\n")
	n, err := c.OpenFile(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if n != 3 {
		t.Errorf("line count = %d, want 3", n)
	}
}

func TestGetLogLinesNoSourceFails(t *testing.T) {
	c := newTestController()
	if _, err := c.GetLogLines(0, 10); err == nil {
		t.Error("expected error with no active source")
	}
}

func TestGetLogLinesOvershootReturnsEmpty(t *testing.T) {
	c := newTestController()
	path := writeTempFile(t, "a\nb\n")
	if _, err := c.OpenFile(context.Background(), path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	lines, err := c.GetLogLines(100, 10)
	if err != nil {
		t.Fatalf("GetLogLines: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty result past end, got %v", lines)
	}
}

func TestApplyFiltersNoFiltersClearsView(t *testing.T) {
	c := newTestController()
	path := writeTempFile(t, "a\nb\nc\n")
	if _, err := c.OpenFile(context.Background(), path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	res, err := c.ApplyFilters([]filterset.Filter{
		{ID: "x", Pattern: "a", IsInclude: true, IsEnabled: true},
	}, "")
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if res.VisibleCount != 1 {
		t.Fatalf("visible count = %d, want 1", res.VisibleCount)
	}

	res, err = c.ApplyFilters(nil, "")
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if res.VisibleCount != 3 {
		t.Errorf("visible count after clearing filters = %d, want 3 (identity view)", res.VisibleCount)
	}

	lines, err := c.GetLogLines(0, 10)
	if err != nil {
		t.Fatalf("GetLogLines: %v", err)
	}
	if len(lines) != 3 {
		t.Errorf("GetLogLines after clearing filters returned %d lines, want 3", len(lines))
	}
}

func TestOpenFileStopsActiveStream(t *testing.T) {
	c := newTestController()
	c.adbPath = fakeAdb(t, []string{"line one", "line two"})

	if err := c.StartStream(context.Background(), nil, ""); err != nil {
		t.Fatalf("StartStream: %v", err)
	}

	path := writeTempFile(t, "file content\n")
	if _, err := c.OpenFile(context.Background(), path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	lines, err := c.GetLogLines(0, 10)
	if err != nil {
		t.Fatalf("GetLogLines: %v", err)
	}
	if len(lines) != 1 || lines[0] != "file content" {
		t.Errorf("expected file-mode view after open_file, got %v", lines)
	}
}

func TestSourceExclusivityFileThenStream(t *testing.T) {
	c := newTestController()
	c.adbPath = fakeAdb(t, []string{"stream line"})

	path := writeTempFile(t, "file line one\nfile line two\n")
	if _, err := c.OpenFile(context.Background(), path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if err := c.StartStream(context.Background(), nil, ""); err != nil {
		t.Fatalf("StartStream: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		lines, err := c.GetLogLines(0, 10)
		if err != nil {
			t.Fatalf("GetLogLines: %v", err)
		}
		if len(lines) > 0 {
			if lines[0] != "stream line" {
				t.Fatalf("expected stream-mode lines, got %v", lines)
			}
			c.StopStream()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for stream-mode lines after switching sources")
}

func fakeAdb(t *testing.T, lines []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "adb")
	script := "#!/bin/sh\n"
	for _, l := range lines {
		script += fmt.Sprintf("echo '%s'\n", l)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}
