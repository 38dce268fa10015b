package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "photosort"

// Metrics holds the Prometheus counters and histograms for one organize run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec   // labels: provider, outcome={success,error,empty}
	GeocodeDuration *prometheus.HistogramVec // labels: provider
	CacheLookups    *prometheus.CounterVec   // labels: result={hit,miss}
	Classifications *prometheus.CounterVec   // labels: granularity

	// File operation metrics.
	FileOperations   *prometheus.CounterVec // labels: operation={move,copy}, outcome={success,failure}
	BytesTransferred prometheus.Counter
	Collisions       prometheus.Counter
	FilesSkipped     prometheus.Counter
	RunDuration      prometheus.Gauge
}

// New creates metrics registered with a fresh registry so repeated runs and
// tests never collide with the default registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_request_duration_seconds",
			Help:      "Reverse geocoding request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_lookups_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_classifications_total",
			Help:      "Location classifications by granularity.",
		}, []string{"granularity"}),
		FileOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_operations_total",
			Help:      "File relocations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		BytesTransferred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_transferred_total",
			Help:      "Bytes written to the destination tree.",
		}),
		Collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "name_collisions_total",
			Help:      "Destination name collisions resolved with a counter suffix.",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Files skipped because planning or relocation failed.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last organize run.",
		}),
	}

	m.registry.MustRegister(
		m.GeocodeRequests,
		m.GeocodeDuration,
		m.CacheLookups,
		m.Classifications,
		m.FileOperations,
		m.BytesTransferred,
		m.Collisions,
		m.FilesSkipped,
		m.RunDuration,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveGeocode records one provider call.
func (m *Metrics) ObserveGeocode(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GeocodeRequests.WithLabelValues(provider, outcome).Inc()
	m.GeocodeDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveCacheLookup records a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveClassification records the granularity a location resolved to.
func (m *Metrics) ObserveClassification(granularity string) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(granularity).Inc()
}

// ObserveFileOperation records one relocation attempt.
func (m *Metrics) ObserveFileOperation(operation string, success bool, bytes int64) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
		if bytes > 0 {
			m.BytesTransferred.Add(float64(bytes))
		}
	}
	m.FileOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveCollision records a resolved name collision.
func (m *Metrics) ObserveCollision() {
	if m == nil {
		return
	}
	m.Collisions.Inc()
}

// ObserveSkip records a file that was not relocated.
func (m *Metrics) ObserveSkip() {
	if m == nil {
		return
	}
	m.FilesSkipped.Inc()
}

// ObserveRun records the run's wall-clock duration.
func (m *Metrics) ObserveRun(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Set(elapsed.Seconds())
}

// WriteTextfile writes the registry in Prometheus text format, in the style of
// the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
