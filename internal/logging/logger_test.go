package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger = WithComponent(logger, "pipeline")
	logger.Info("rung complete", Int(FieldRung, 2), Float64(FieldPercent, 66.7))

	line := buf.String()
	if !strings.Contains(line, "INFO pipeline: rung complete") {
		t.Fatalf("unexpected console line %q", line)
	}
	if !strings.Contains(line, "rung=2") || !strings.Contains(line, "percent=66.7") {
		t.Fatalf("missing attrs in %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("upload failed", String("key", "videos/ab cd/_720p.mp4"))
	if !strings.Contains(buf.String(), `key="videos/ab cd/_720p.mp4"`) {
		t.Fatalf("expected quoted value in %q", buf.String())
	}
}

func TestJSONHandlerEmitsLowercaseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("probing", String("path", "/tmp/in.mkv"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if payload["level"] != "debug" {
		t.Fatalf("expected level debug, got %v", payload["level"])
	}
	if payload["msg"] != "probing" {
		t.Fatalf("expected msg probing, got %v", payload["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestProgressSampler(t *testing.T) {
	sampler := NewProgressSampler(5)
	if !sampler.ShouldLog(0, "720p") {
		t.Fatal("first event should log")
	}
	if sampler.ShouldLog(2, "720p") {
		t.Fatal("same bucket should be suppressed")
	}
	if !sampler.ShouldLog(5.1, "720p") {
		t.Fatal("bucket boundary should log")
	}
	if !sampler.ShouldLog(5.2, "1080p") {
		t.Fatal("label change should log")
	}
}
