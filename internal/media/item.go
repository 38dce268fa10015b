package media

import (
	"path/filepath"
	"strings"
	"time"
)

// GPS is a decimal-degree coordinate pair.
type GPS struct {
	Latitude  float64
	Longitude float64
}

// Item is one media file with the metadata extracted from it.
type Item struct {
	Path string
	// CaptureTime is zero when no date could be determined.
	CaptureTime time.Time
	// DateFromFile marks a CaptureTime taken from the filesystem rather than metadata.
	DateFromFile bool
	GPS          *GPS
}

// HasDate reports whether the item carries a capture time.
func (i Item) HasDate() bool {
	return !i.CaptureTime.IsZero()
}

// HasGPS reports whether the item carries coordinates.
func (i Item) HasGPS() bool {
	return i.GPS != nil
}

// Stem returns the base filename without its final extension.
func (i Item) Stem() string {
	base := filepath.Base(i.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the final extension including the dot, case preserved.
func (i Item) Ext() string {
	return filepath.Ext(i.Path)
}
