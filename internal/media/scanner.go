package media

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"photosort/internal/faults"
	"photosort/internal/logging"
)

// ImageExtensions are the recognized still-image extensions, lower case.
var ImageExtensions = []string{
	".jpg", ".jpeg", ".png", ".heic", ".cr2", ".nef", ".arw", ".dng", ".gif", ".bmp", ".tiff",
}

// VideoExtensions are the recognized video extensions, lower case.
var VideoExtensions = []string{
	".mp4", ".mov", ".avi", ".mkv", ".m4v", ".3gp", ".mts", ".m2ts",
}

// Kind classifies a media file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

// KindOf classifies path by extension, case-insensitively.
func KindOf(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(ImageExtensions, ext):
		return KindImage
	case slices.Contains(VideoExtensions, ext):
		return KindVideo
	default:
		return KindOther
	}
}

// ScanResult lists discovered media and how many candidates were filtered.
type ScanResult struct {
	Files    []string
	Excluded int
}

// Scanner discovers media files beneath a source directory.
type Scanner struct {
	exclude   []string
	recursive bool
	logger    *slog.Logger
}

// NewScanner builds a scanner. Exclude patterns match a directory name, the
// path relative to the source root (glob), or any single path component.
func NewScanner(exclude []string, recursive bool, logger *slog.Logger) *Scanner {
	return &Scanner{
		exclude:   slices.Clone(exclude),
		recursive: recursive,
		logger:    logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan returns media files under root in lexical order.
func (s *Scanner) Scan(ctx context.Context, root string) (ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ScanResult{}, faults.Wrap(faults.ErrConfiguration, "scanner", "scan", "source path does not exist: "+root, err)
		}
		return ScanResult{}, faults.Wrap(faults.ErrFilesystem, "scanner", "scan", "stat source", err)
	}
	if !info.IsDir() {
		return ScanResult{}, faults.Wrap(faults.ErrConfiguration, "scanner", "scan", "source path is not a directory: "+root, nil)
	}

	var result ScanResult
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			s.logger.Warn("skipping unreadable path",
				logging.String(logging.FieldFile, path),
				logging.Error(walkErr),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !s.recursive || s.excluded(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if KindOf(path) == KindOther || !isRegular(path, d) {
			return nil
		}
		if s.excluded(rel) {
			result.Excluded++
			s.logger.Debug("excluding file", logging.String(logging.FieldFile, rel))
			return nil
		}
		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ScanResult{}, ctxErr
		}
		return ScanResult{}, faults.Wrap(faults.ErrFilesystem, "scanner", "scan", "walk source", err)
	}
	slices.Sort(result.Files)

	s.logger.Info("scan complete",
		logging.String("source", root),
		logging.Int("files", len(result.Files)),
		logging.Int("excluded", result.Excluded),
		logging.Bool("recursive", s.recursive),
	)
	return result, nil
}

// excluded reports whether rel matches any exclude pattern.
func (s *Scanner) excluded(rel string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, pattern := range s.exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		for _, part := range parts {
			if part == pattern {
				return true
			}
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Summary counts files per kind and per lower-case extension.
type Summary struct {
	Total       int
	Images      int
	Videos      int
	ByExtension map[string]int
}

// Summarize tallies files by kind and extension.
func Summarize(files []string) Summary {
	summary := Summary{Total: len(files), ByExtension: map[string]int{}}
	for _, path := range files {
		switch KindOf(path) {
		case KindImage:
			summary.Images++
		case KindVideo:
			summary.Videos++
		}
		summary.ByExtension[strings.ToLower(filepath.Ext(path))]++
	}
	return summary
}
