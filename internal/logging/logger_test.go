package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	WithComponent(logger, "scheduler").Info("rotated wallpaper",
		String("output", "DP-1"),
		Int("position", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO scheduler: rotated wallpaper") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "output=DP-1") || !strings.Contains(line, "position=3") {
		t.Fatalf("attrs missing from line: %q", line)
	}
}

func TestConsoleQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("applied", String("image", "/pics/summer trip.jpg"))
	if !strings.Contains(buf.String(), `image="/pics/summer trip.jpg"`) {
		t.Fatalf("value not quoted: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("daemon started", String("socket", "/run/wallshift.sock"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "daemon started" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Fatalf("level = %v", entry["level"])
	}
	if entry["socket"] != "/run/wallshift.sock" {
		t.Fatalf("socket = %v", entry["socket"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("ts field missing")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("suppressed")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "suppressed") {
		t.Fatalf("info line leaked through warn filter: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	NewNop().Error("goes nowhere", Error(nil))
}
