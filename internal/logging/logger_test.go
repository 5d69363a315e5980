package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.With("component", "compiler").Info("compiled command", "jobType", "refine3d", "steps", 1)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO compiler: compiled command") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "jobType=refine3d") || !strings.Contains(line, "steps=1") {
		t.Fatalf("missing attributes: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("rendered", "command", "relion_refine --i particles.star")
	if !strings.Contains(buf.String(), `command="relion_refine --i particles.star"`) {
		t.Fatalf("expected quoted command, got %q", buf.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("sub-level records leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("compiled", slog.String("jobType", "class2d"))
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if payload["jobType"] != "class2d" {
		t.Fatalf("missing attribute in %v", payload)
	}
}
