package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()

	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("forecast-api", "test", WarnLevel)
	logger.SetOutput(&buf)

	ctx := context.Background()
	logger.Debug(ctx, "debug", Fields{})
	logger.Info(ctx, "info", Fields{})
	logger.Warn(ctx, "warn", Fields{"k": "v"})
	logger.Error(ctx, "error", Fields{}, errors.New("boom"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != "WARN" || entries[0].Fields["k"] != "v" {
		t.Errorf("unexpected warn entry: %+v", entries[0])
	}
	if entries[1].Error != "boom" {
		t.Errorf("Error = %q, want %q", entries[1].Error, "boom")
	}
	if entries[1].Line == 0 || entries[1].File == "" {
		t.Error("error entries should carry caller information")
	}

	buf.Reset()
	logger.SetLevel(DebugLevel)
	logger.Debug(ctx, "debug", Fields{})
	if got := len(decodeEntries(t, &buf)); got != 1 {
		t.Errorf("after SetLevel(DebugLevel) got %d entries, want 1", got)
	}
}

func TestStructuredLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("forecast-api", "test", InfoLevel)
	logger.SetOutput(&buf)

	ctx := WithRequestID(context.Background(), "req-123")
	logger.WithFields(Fields{"component": "store"}).Info(ctx, "[TEST] hello", Fields{"id": 1})

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.RequestID != "req-123" {
		t.Errorf("RequestID = %q, want %q", entry.RequestID, "req-123")
	}
	if entry.Fields["component"] != "store" {
		t.Errorf("context field missing: %+v", entry.Fields)
	}
	if entry.Service != "forecast-api" {
		t.Errorf("Service = %q", entry.Service)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
