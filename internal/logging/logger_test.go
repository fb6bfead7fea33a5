package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger = WithComponent(logger, "ingest")
	logger.Info("episode saved", String("file", "episode_1700000000.json"), Int64("bytes", 42))

	line := buf.String()
	if !strings.Contains(line, "INF") {
		t.Fatalf("missing level tag: %q", line)
	}
	if !strings.Contains(line, "[ingest]") {
		t.Fatalf("missing component: %q", line)
	}
	if !strings.Contains(line, "file=episode_1700000000.json") {
		t.Fatalf("missing file attr: %q", line)
	}
	if !strings.Contains(line, "bytes=42") {
		t.Fatalf("missing bytes attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Error("save failed", String("error", "invalid character 'x'"))

	if !strings.Contains(buf.String(), `error="invalid character 'x'"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info line should be suppressed: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestJSONHandlerRenamesCoreKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Info("hello", String("k", "v"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if decoded["msg"] != "hello" {
		t.Fatalf("unexpected msg: %v", decoded["msg"])
	}
	if decoded["level"] != "info" {
		t.Fatalf("unexpected level: %v", decoded["level"])
	}
	if _, ok := decoded["ts"]; !ok {
		t.Fatal("missing ts key")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("never seen", Error(nil))
}
