package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cdrip/internal/config"
)

func TestNewConsoleWritesComponentPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Level: "debug", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	NewComponentLogger(logger, "ripper").Info("disc ready", String("device", "/dev/sr0"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, " INFO ripper: disc ready") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "device=/dev/sr0") {
		t.Fatalf("missing attribute in log line: %q", line)
	}
}

func TestNewRunLoggerCarriesRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	NewRunLogger(logger, "9b7c1c2a").Info("tagging")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"run_id":"9b7c1c2a"`) {
		t.Fatalf("missing run_id attribute: %s", data)
	}
}

func TestNewJSONLowercasesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("skip detected")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"level":"warn"`) {
		t.Fatalf("unexpected json line: %s", data)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigCreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.Format = "console"
	cfg.Logging.Level = "info"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	if _, err := os.Stat(filepath.Join(dir, "cdrip.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Level: "warn", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Fatal("info line should have been filtered")
	}
	if !strings.Contains(string(data), "kept") {
		t.Fatal("warn line missing")
	}
}
