package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"photosort/internal/config"
	"photosort/internal/logging"
)

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message", logging.String("k", "v"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", content, err)
	}
	if record["msg"] != "debug message" || record["k"] != "v" {
		t.Fatalf("unexpected record: %v", record)
	}
	if record["level"] != "debug" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
}

func TestConsoleLoggerFormatsComponentAndFile(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "mover")
	component.Info("file moved",
		logging.String(logging.FieldFile, "/photos/in/IMG_0001.jpg"),
		logging.String(logging.FieldRunID, "abc"),
		logging.Int("bytes", 42),
	)

	line := buf.String()
	for _, fragment := range []string{"INFO [mover] IMG_0001.jpg – file moved", "bytes=42"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, "run_id") {
		t.Fatalf("expected run_id hidden at info, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller", logging.Error(errors.New("disk full")))

	line := buf.String()
	if !strings.Contains(line, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", line)
	}
	if !strings.Contains(line, `error="disk full"`) {
		t.Fatalf("expected quoted error value, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRunID(context.Background(), "run-123")
	logging.WithContext(ctx, logger).Info("hello")

	if !strings.Contains(buf.String(), `"run_id":"run-123"`) {
		t.Fatalf("expected run_id in %q", buf.String())
	}
	if _, ok := logging.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on empty context")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "cache unavailable", "cache_open_failed",
		logging.String(logging.FieldImpact, "geocoding results are not persisted"),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record[logging.FieldEventType] != "cache_open_failed" {
		t.Fatalf("unexpected event type: %v", record[logging.FieldEventType])
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatal("expected default error hint")
	}
	if record[logging.FieldImpact] != "geocoding results are not persisted" {
		t.Fatalf("expected caller impact preserved, got %v", record[logging.FieldImpact])
	}
}

func TestJSONRecordShapesCoordinatesAndDurations(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("classified",
		logging.Coordinates(37.77492912345, -122.41941551),
		logging.Duration("elapsed", 1500*time.Millisecond),
		logging.Error(errors.New("boom")),
	)

	var record struct {
		TS             string  `json:"ts"`
		ElapsedSeconds float64 `json:"elapsed_seconds"`
		Error          string  `json:"error"`
		GPS            struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"gps"`
	}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record %q: %v", buf.String(), err)
	}
	if record.GPS.Lat != 37.774929 || record.GPS.Lon != -122.419416 {
		t.Fatalf("expected rounded coordinates, got %+v", record.GPS)
	}
	if record.ElapsedSeconds != 1.5 {
		t.Fatalf("expected elapsed_seconds=1.5, got %v", record.ElapsedSeconds)
	}
	if record.Error != "boom" {
		t.Fatalf("unexpected error field %q", record.Error)
	}
	if !strings.HasSuffix(record.TS, "Z") {
		t.Fatalf("expected UTC timestamp, got %q", record.TS)
	}
}
