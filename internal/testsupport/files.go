package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile creates path, and any missing parents, holding size filler
// bytes. Sizes below one are written as one byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	mkdirParent(t, path)
	if err := os.WriteFile(path, bytes.Repeat([]byte{'p'}, int(max(size, 1))), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMedia writes a small media file and sets its modification time, which
// the extractor uses as the capture date when no metadata is present.
func WriteMedia(t testing.TB, path string, content string, mtime time.Time) {
	t.Helper()
	mkdirParent(t, path)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func mkdirParent(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}
