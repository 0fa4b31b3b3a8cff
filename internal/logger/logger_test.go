package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %s, want %s", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLoggerOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelDebug)

	l.Debug("worker-1", "debug message")
	l.Info("worker-1", "info message")
	l.Warn("worker-1", "warn message")
	l.Error("worker-1", "error message")

	output := buf.String()

	for _, want := range []string{"level=debug", "level=info", "level=warning", "level=error"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if !strings.Contains(output, "component=worker-1") {
		t.Error("expected component in log")
	}
}

func TestLoggerLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelWarn)

	l.Debug("", "debug message")
	l.Info("", "info message")
	l.Warn("", "warn message")
	l.Error("", "error message")

	output := buf.String()

	if strings.Contains(output, "debug message") {
		t.Error("DEBUG should be filtered")
	}
	if strings.Contains(output, "info message") {
		t.Error("INFO should be filtered")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("expected WARN log")
	}
	if !strings.Contains(output, "error message") {
		t.Error("expected ERROR log")
	}
}

func TestLoggerSetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelError)

	l.Info("", "should not appear")

	if strings.Contains(buf.String(), "should not appear") {
		t.Error("INFO should be filtered at ERROR level")
	}

	l.SetLevel(LevelInfo)
	l.Info("", "should appear")

	if !strings.Contains(buf.String(), "should appear") {
		t.Error("INFO should appear after SetLevel")
	}
}

func TestLoggerWithoutComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelInfo)

	l.Info("", "message without component")

	output := buf.String()

	if strings.Contains(output, "component=") {
		t.Error("should not have a component field when none is given")
	}
	if !strings.Contains(output, "message without component") {
		t.Error("expected message in output")
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelInfo)

	l.Info("worker-1", "count: %d, name: %s", 42, "test")

	output := buf.String()

	if !strings.Contains(output, "count: 42, name: test") {
		t.Errorf("expected formatted message, got: %s", output)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, LevelInfo)
	if err := l.SetFormat("json"); err != nil {
		t.Fatalf("SetFormat: %v", err)
	}

	l.Info("worker-3", "disconnected; shutting down")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "worker-3" {
		t.Errorf("expected component worker-3, got %v", entry["component"])
	}
	if entry["msg"] != "disconnected; shutting down" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
}

func TestLoggerUnknownFormat(t *testing.T) {
	l := New(&bytes.Buffer{}, LevelInfo)
	if err := l.SetFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
