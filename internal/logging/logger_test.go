package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"warn", "WARN", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case Debug", " Debug ", slog.LevelDebug},
		{"unknown defaults to info", "loud", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLoggerTraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(context.Background(), LevelTrace, "event applied", "kind", "tick")
	out := buf.String()
	if !strings.Contains(out, "level=TRACE") || !strings.Contains(out, "kind=tick") {
		t.Fatalf("unexpected trace output: %s", out)
	}
}

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gyro.log")
	logger, closeFn, err := OpenFile(path, "debug")
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	logger.Debug("session started", "preset", "blocks")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "preset=blocks") {
		t.Fatalf("log file missing entry: %s", data)
	}

	discard, closeFn, err := OpenFile("", "debug")
	if err != nil || discard == nil {
		t.Fatalf("empty path should give a discarding logger: %v", err)
	}
	_ = closeFn()
}
