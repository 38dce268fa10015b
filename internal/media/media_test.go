package media_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"photosort/internal/logging"
	"photosort/internal/media"
	"photosort/internal/testsupport"
)

func TestScannerFiltersExtensionsCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.jpg", "b.JPG", "c.MoV", "notes.txt", "sub/d.heic", "sub/deeper/e.mp4"} {
		testsupport.WriteFile(t, filepath.Join(root, name), 8)
	}

	result, err := media.NewScanner(nil, true, logging.NewNop()).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	want := []string{
		filepath.Join(root, "a.jpg"),
		filepath.Join(root, "b.JPG"),
		filepath.Join(root, "c.MoV"),
		filepath.Join(root, "sub", "d.heic"),
		filepath.Join(root, "sub", "deeper", "e.mp4"),
	}
	if !slices.Equal(result.Files, want) {
		t.Fatalf("files = %v, want %v", result.Files, want)
	}
}

func TestScannerNonRecursive(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "top.jpg"), 8)
	testsupport.WriteFile(t, filepath.Join(root, "sub", "nested.jpg"), 8)

	result, err := media.NewScanner(nil, false, logging.NewNop()).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Files) != 1 || filepath.Base(result.Files[0]) != "top.jpg" {
		t.Fatalf("expected only top-level file, got %v", result.Files)
	}
}

func TestScannerExcludePatterns(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"keep/photo.jpg",
		"thumbnails/small.jpg",
		"a/b/.git/obj.jpg",
		"cache/x.jpg",
		"raw/IMG_0001.dng",
		"skip_me.png",
	} {
		testsupport.WriteFile(t, filepath.Join(root, name), 8)
	}

	scanner := media.NewScanner([]string{"thumbnails", ".git", "cache/*", "*.dng", "skip_*"}, true, logging.NewNop())
	result, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0] != filepath.Join(root, "keep", "photo.jpg") {
		t.Fatalf("unexpected files: %v", result.Files)
	}
	if result.Excluded == 0 {
		t.Fatal("expected excluded count for individually matched files")
	}
}

func TestScannerRejectsMissingSource(t *testing.T) {
	_, err := media.NewScanner(nil, true, logging.NewNop()).Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestSummarize(t *testing.T) {
	summary := media.Summarize([]string{"a.JPG", "b.jpg", "c.mov", "d.heic"})
	if summary.Total != 4 || summary.Images != 3 || summary.Videos != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.ByExtension[".jpg"] != 2 {
		t.Fatalf("expected extensions folded to lower case, got %v", summary.ByExtension)
	}
}

func TestItemNameParts(t *testing.T) {
	item := media.Item{Path: "/photos/IMG_1234.JPG"}
	if item.Stem() != "IMG_1234" || item.Ext() != ".JPG" {
		t.Fatalf("stem=%q ext=%q", item.Stem(), item.Ext())
	}
	if item.HasDate() || item.HasGPS() {
		t.Fatal("expected empty metadata")
	}
}

func TestExtractFallsBackToModificationTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	testsupport.WriteFile(t, path, 64)
	mtime := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	extractor := media.NewExtractor(logging.NewNop(), media.WithExiftool(""))
	item, err := extractor.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !item.CaptureTime.Equal(mtime) || !item.DateFromFile {
		t.Fatalf("expected mtime fallback, got %+v", item)
	}
	if item.HasGPS() {
		t.Fatal("expected no gps for a file without exif")
	}
}

func TestExtractUsesExiftoolForVideos(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "exiftool")
	script := "#!/bin/sh\ncat <<'JSON'\n" +
		`[{"QuickTime:CreateDate": "2022:07:04 18:00:00", "Composite:GPSLatitude": 44.428, "Composite:GPSLongitude": -110.5885}]` +
		"\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	video := filepath.Join(dir, "clip.mov")
	testsupport.WriteFile(t, video, 64)

	extractor := media.NewExtractor(logging.NewNop(), media.WithExiftool(stub))
	if !extractor.ExiftoolAvailable() {
		t.Fatal("expected exiftool to be available")
	}
	item, err := extractor.Extract(context.Background(), video)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if item.DateFromFile || item.CaptureTime.Year() != 2022 || item.CaptureTime.Month() != time.July {
		t.Fatalf("expected exiftool date, got %+v", item)
	}
	if !item.HasGPS() || item.GPS.Latitude != 44.428 || item.GPS.Longitude != -110.5885 {
		t.Fatalf("expected exiftool gps, got %+v", item.GPS)
	}
}

func TestExtractMissingFile(t *testing.T) {
	extractor := media.NewExtractor(logging.NewNop(), media.WithExiftool(""))
	if _, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
