package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewLoggerDefaultsToStderr(t *testing.T) {
	logger := NewLogger(nil)
	if logger == nil {
		t.Fatal("NewLogger(nil) returned nil")
	}
	if logger.level != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.level)
	}
	if logger.logger.Writer() != os.Stderr {
		t.Errorf("expected default output os.Stderr, got %v", logger.logger.Writer())
	}
}

func TestLoggerLevelGating(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}

	logger.Warn("absorb interleave overdue")
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("expected [WARN] prefix, got %q", buf.String())
	}
}

func TestLoggerFormatsKeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Debug("canceled pending fsync", "tag", "md/1/2/3", "cycle", 7)
	out := buf.String()
	if !strings.Contains(out, "tag=md/1/2/3") || !strings.Contains(out, "cycle=7") {
		t.Errorf("expected formatted key=value pairs, got %q", out)
	}
}

func TestPrintfDelegatesToInfof(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Output: &buf})

	logger.Printf("processed %d entries", 3)
	if !strings.Contains(buf.String(), "processed 3 entries") {
		t.Errorf("expected formatted message, got %q", buf.String())
	}
}

func TestDefaultAndSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	custom := NewLogger(&Config{Level: LevelDebug, Output: &buf})
	SetDefault(custom)

	Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected global Info to use the custom default logger, got %q", buf.String())
	}
}
