package organizer

import (
	"time"

	"photosort/internal/location"
	"photosort/internal/media"
)

// maxRecordedErrors bounds Stats.Errors; Failed keeps the full count.
const maxRecordedErrors = 50

// Stats summarizes one run.
type Stats struct {
	RunID    string
	Started  time.Time
	Elapsed  time.Duration
	Canceled bool

	Total     int
	Excluded  int
	Processed int
	Skipped   int
	Failed    int
	Bytes     int64

	WithGPS     int
	WithoutGPS  int
	WithDate    int
	WithoutDate int

	// Locations counts files per resolved location name.
	Locations       map[string]int
	CacheHits       int
	ProviderLookups int
	Duplicates      int

	Errors []string

	TransactionLog   string
	DuplicatesReport string
}

func newStats(runID string, started time.Time) *Stats {
	return &Stats{
		RunID:     runID,
		Started:   started,
		Locations: make(map[string]int),
	}
}

// FilesPerSecond reports processed throughput, or zero before any time elapsed.
func (s *Stats) FilesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Processed) / s.Elapsed.Seconds()
}

func (s *Stats) recordMetadata(item media.Item) {
	if item.HasGPS() {
		s.WithGPS++
	} else {
		s.WithoutGPS++
	}
	if item.HasDate() {
		s.WithDate++
	} else {
		s.WithoutDate++
	}
}

func (s *Stats) recordLocation(result location.Result) {
	s.Locations[result.Name]++
	switch result.Source {
	case location.SourceCache:
		s.CacheHits++
	case "":
	default:
		s.ProviderLookups++
	}
}

func (s *Stats) recordFailure(msg string, err error) {
	s.Failed++
	if len(s.Errors) >= maxRecordedErrors {
		return
	}
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	s.Errors = append(s.Errors, msg)
}
