package media

import (
	"context"
	"log/slog"
	"math"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"photosort/internal/deps"
	"photosort/internal/faults"
	"photosort/internal/logging"
	"photosort/internal/media/exiftool"
)

// Extractor reads capture metadata from a media file.
type Extractor interface {
	Extract(ctx context.Context, path string) (Item, error)
}

// MetadataExtractor reads EXIF with goexif, consults exiftool for videos and
// for images goexif cannot decode, and falls back to the modification time
// for the capture date.
type MetadataExtractor struct {
	exiftool string
	logger   *slog.Logger
}

// ExtractorOption customizes a MetadataExtractor.
type ExtractorOption func(*MetadataExtractor)

// WithExiftool sets the exiftool binary. An empty string disables exiftool.
func WithExiftool(binary string) ExtractorOption {
	return func(e *MetadataExtractor) {
		e.exiftool = binary
	}
}

// NewExtractor builds an extractor, resolving exiftool from PATH unless an
// option overrides it.
func NewExtractor(logger *slog.Logger, opts ...ExtractorOption) *MetadataExtractor {
	e := &MetadataExtractor{logger: logging.NewComponentLogger(logger, "metadata")}
	if path, ok := deps.Resolve("exiftool"); ok {
		e.exiftool = path
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.exiftool == "" {
		logging.WarnWithContext(e.logger, "exiftool not found; video metadata limited to file dates", "exiftool_missing",
			logging.String(logging.FieldErrorHint, "install exiftool to read video capture dates and GPS"),
			logging.String(logging.FieldImpact, "videos are dated by modification time and filed under Unknown location"),
		)
	}
	return e
}

// ExiftoolAvailable reports whether exiftool will be consulted.
func (e *MetadataExtractor) ExiftoolAvailable() bool {
	return e.exiftool != ""
}

// Extract returns the metadata for path. Missing or unreadable metadata is
// not an error; only a file that cannot be stat'ed is.
func (e *MetadataExtractor) Extract(ctx context.Context, path string) (Item, error) {
	item := Item{Path: path}

	switch KindOf(path) {
	case KindImage:
		if !e.readEXIF(path, &item) && e.exiftool != "" {
			e.readExiftool(ctx, path, &item)
		}
	case KindVideo:
		if e.exiftool != "" {
			e.readExiftool(ctx, path, &item)
		}
	}

	if !item.HasDate() {
		info, err := os.Stat(path)
		if err != nil {
			return item, faults.Wrap(faults.ErrFilesystem, "metadata", "extract", "stat media file", err)
		}
		item.CaptureTime = info.ModTime()
		item.DateFromFile = true
	}
	return item, nil
}

// readEXIF reports whether goexif decoded the file.
func (e *MetadataExtractor) readEXIF(path string, item *Item) bool {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Debug("open for exif failed", logging.String(logging.FieldFile, path), logging.Error(err))
		return false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		e.logger.Debug("no exif data", logging.String(logging.FieldFile, path), logging.Error(err))
		return false
	}

	// DateTime tries DateTimeOriginal before DateTime.
	if ts, err := x.DateTime(); err == nil && !ts.IsZero() {
		item.CaptureTime = ts
	}
	if lat, lon, err := x.LatLong(); err == nil && validCoordinates(lat, lon) {
		item.GPS = &GPS{Latitude: lat, Longitude: lon}
	}
	return true
}

func (e *MetadataExtractor) readExiftool(ctx context.Context, path string, item *Item) {
	result, err := exiftool.Inspect(ctx, e.exiftool, path)
	if err != nil {
		e.logger.Debug("exiftool failed", logging.String(logging.FieldFile, path), logging.Error(err))
		return
	}
	if result.HasDate() && !item.HasDate() {
		item.CaptureTime = result.CaptureTime
	}
	if result.HasGPS && item.GPS == nil && validCoordinates(result.Latitude, result.Longitude) {
		item.GPS = &GPS{Latitude: result.Latitude, Longitude: result.Longitude}
	}
}

func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
