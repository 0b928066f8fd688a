package traypulse

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogAdapter(slog.New(handler))

	logger.Debug("debug msg", "k", "v")
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error("error msg")

	out := buf.String()
	for _, want := range []string{"debug msg", "info msg", "warn msg", "error msg", "k=v"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogAdapterNilUsesDefault(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter == nil {
		t.Fatal("NewSlogAdapter(nil) returned nil")
	}
	// Must not panic.
	adapter.Debug("noop")
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := JSONLogger(&buf, slog.LevelInfo)

	logger.Info("hello", "answer", 42)
	logger.Debug("filtered out")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "filtered out") {
		t.Error("debug message passed an info-level logger")
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, line)
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
	if record["answer"] != float64(42) {
		t.Errorf("answer = %v, want 42", record["answer"])
	}
}

func TestJSONLoggerNilWriter(t *testing.T) {
	if logger := JSONLogger(nil, slog.LevelInfo); logger == nil {
		t.Fatal("JSONLogger(nil) returned nil")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// All levels must be safe no-ops.
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
}

func TestDefaultAndDebugLoggers(t *testing.T) {
	if DefaultLogger() == nil {
		t.Error("DefaultLogger() returned nil")
	}
	if DebugLogger() == nil {
		t.Error("DebugLogger() returned nil")
	}
}
