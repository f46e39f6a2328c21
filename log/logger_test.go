package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestParse(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   Debug,
		"":        Info,
		"INFO":    Info,
		"warning": Warn,
		"error":   Error,
		"off":     Off,
	}

	for input, want := range tests {
		got, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if got != want {
			t.Errorf("Parse(%q): expected %v, got %v", input, want, got)
		}
	}

	if _, err := Parse("verbose"); err == nil {
		t.Errorf("Expected error for unknown level")
	}
}

func TestLogger_LevelFilterAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("hostfs", Info, &buf)

	logger.Debug("hidden %d", 1)
	logger.Named("session").With("id", "abc").Info("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug message should have been filtered: %q", out)
	}
	if !strings.Contains(out, "[hostfs/session] visible 2 id=abc") {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("hostfs", Debug, &buf)
	logger.JSON = true

	logger.With("stream", "s1").Warn("closing")

	var entry logEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if entry.Level != "WARN" || entry.Message != "closing" || entry.Service != "hostfs" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.Fields["stream"] != "s1" {
		t.Errorf("Expected stream field, got %v", entry.Fields)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic or write anywhere.
	Discard().Error("dropped")

	var nilLogger *Logger
	nilLogger.Info("dropped")
}
