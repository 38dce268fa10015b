package mover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"photosort/internal/faults"
	"photosort/internal/fileutil"
	"photosort/internal/logging"
	"photosort/internal/metrics"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newMover(copyMode, verify bool) (*Mover, clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	return New(Options{Copy: copyMode, Verify: verify, Clock: clock, Logger: logging.NewNop(), Metrics: metrics.New()}), clock
}

func TestApplyMoveRenames(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "photo")
	dst := filepath.Join(dir, "b.jpg")
	m, clock := newMover(false, true)

	if err := m.Apply(context.Background(), src, dst); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected source to be gone after move")
	}
	if got, _ := os.ReadFile(dst); string(got) != "photo" {
		t.Fatalf("destination content = %q", got)
	}

	records := m.Log().Records()
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	rec := records[0]
	if !rec.Success || rec.Operation != OperationMove || rec.Source != src || rec.Destination != dst || rec.Error != nil {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Timestamp.Equal(clock.Now()) {
		t.Fatalf("timestamp = %s", rec.Timestamp)
	}
}

func TestApplyMoveFallsBackAcrossDevices(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "cross device")
	dst := filepath.Join(dir, "b.jpg")
	m, _ := newMover(false, false)
	m.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	if err := m.Apply(context.Background(), src, dst); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected source removed after cross-device copy")
	}
	if got, _ := os.ReadFile(dst); string(got) != "cross device" {
		t.Fatalf("destination content = %q", got)
	}
}

func TestApplyMoveReportsOtherRenameErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "x")
	m, _ := newMover(false, false)
	m.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
	}

	err := m.Apply(context.Background(), src, filepath.Join(dir, "b.jpg"))
	if !errors.Is(err, faults.ErrFilesystem) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
	if _, statErr := os.Stat(src); statErr != nil {
		t.Fatal("source must survive a failed move")
	}
	rec := m.Log().Records()[0]
	if rec.Success || rec.ErrorMessage() == "" {
		t.Fatalf("expected failure record, got %+v", rec)
	}
}

func TestApplyCopyVerifiesAndPreservesSource(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "keep me")
	dst := filepath.Join(dir, "b.jpg")
	m, _ := newMover(true, true)

	if err := m.Apply(context.Background(), src, dst); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("copy must keep the source")
	}
	same, err := VerifyFiles(src, dst)
	if err != nil || !same {
		t.Fatalf("expected identical files (%v)", err)
	}
	if rec := m.Log().Records()[0]; rec.Operation != OperationCopy || !rec.Success {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestApplyCopyDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "pristine bytes")
	dst := filepath.Join(dir, "b.jpg")
	m, _ := newMover(true, true)
	m.copyFile = func(from, to string) (int64, error) {
		n, err := fileutil.CopyFile(from, to)
		if err != nil {
			return n, err
		}
		return n, flipFirstByte(to)
	}

	err := m.Apply(context.Background(), src, dst)
	if !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if _, statErr := os.Stat(dst); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("corrupted destination must be removed")
	}
	rec := m.Log().Records()[0]
	if rec.Success || !strings.Contains(rec.ErrorMessage(), "integrity verification failed") {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestVerifyRemovesCorruptedDestination(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "some image data")
	dst := filepath.Join(dir, "b.jpg")
	m, _ := newMover(true, true)
	if err := m.Apply(context.Background(), src, dst); err != nil {
		t.Fatal(err)
	}

	if err := flipFirstByte(dst); err != nil {
		t.Fatal(err)
	}
	if same, _ := VerifyFiles(src, dst); same {
		t.Fatal("expected VerifyFiles to detect corruption")
	}
	if err := m.Verify(src, dst); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if _, err := os.Stat(dst); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected destination removed")
	}
}

func TestApplyNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "new")
	dst := writeSource(t, dir, "b.jpg", "existing")

	for _, copyMode := range []bool{false, true} {
		m, _ := newMover(copyMode, true)
		if err := m.Apply(context.Background(), src, dst); err == nil {
			t.Fatalf("copy=%v: expected error for existing destination", copyMode)
		}
		if got, _ := os.ReadFile(dst); string(got) != "existing" {
			t.Fatalf("copy=%v: destination overwritten: %q", copyMode, got)
		}
		if m.Log().Len() != 1 {
			t.Fatalf("copy=%v: expected the failed attempt to be recorded", copyMode)
		}
	}
}

func TestLogSaveWritesIndentedArray(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.jpg", "x")
	m, _ := newMover(true, false)
	_ = m.Apply(context.Background(), src, filepath.Join(dir, "b.jpg"))
	_ = m.Apply(context.Background(), filepath.Join(dir, "missing.jpg"), filepath.Join(dir, "c.jpg"))

	path := filepath.Join(dir, "transaction_log.json")
	if err := m.Log().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "[\n  {") {
		t.Fatalf("expected indented JSON array, got %q", raw[:min(len(raw), 20)])
	}
	if !strings.Contains(string(raw), `"error": null`) {
		t.Fatal("expected null error for the successful record")
	}

	records, err := LoadLog(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || !records[0].Success || records[1].Success {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestEmptyLogSavesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transaction_log.json")
	if err := NewLog().Save(path); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("got %q", raw)
	}
}

func flipFirstByte(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data[0] ^= 0xFF
	return os.WriteFile(path, data, 0o644)
}
