package organizer

import (
	"log/slog"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"photosort/internal/config"
	"photosort/internal/geocache"
	"photosort/internal/geocode"
	"photosort/internal/location"
	"photosort/internal/logging"
	"photosort/internal/media"
	"photosort/internal/metrics"
	"photosort/internal/mover"
	"photosort/internal/planner"
)

// BuildOptions carries the per-invocation settings that are not part of the
// configuration file.
type BuildOptions struct {
	DryRun   bool
	Logger   *slog.Logger
	Progress ProgressFunc
	Clock    clockwork.Clock
}

// Runtime bundles a configured Organizer with the resources it owns.
type Runtime struct {
	Organizer *Organizer
	// Cache is nil when caching is disabled.
	Cache   *geocache.Store
	Metrics *metrics.Metrics
}

// Close releases the cache database.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return r.Cache.Close()
}

// NewFromConfig assembles the full pipeline from cfg. The caller must Close
// the returned Runtime.
func NewFromConfig(cfg *config.Config, opts BuildOptions) (*Runtime, error) {
	if err := cfg.ValidateRun(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	var m *metrics.Metrics
	metricsPath := ""
	if cfg.Metrics.Enabled {
		m = metrics.New()
		if !opts.DryRun {
			metricsPath = filepath.Join(cfg.Paths.DestinationDir, StateDirName, "metrics.prom")
		}
	}

	var cache *geocache.Store
	if cfg.Geocoding.CacheEnabled {
		store, err := geocache.Open(cfg.Paths.CachePath, logger, geocache.WithClock(clock))
		if err != nil {
			// The run proceeds without a cache.
			logging.WarnWithContext(logger, "geocode cache unavailable; continuing without it", "cache_open_failed",
				logging.String("db_path", cfg.Paths.CachePath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "every location is looked up from the providers"),
			)
		} else {
			cache = store
		}
	}

	classifier := location.NewClassifier(location.Options{
		Cache:     cacheOrNil(cache),
		Resolver:  newResolver(cfg, clock, logger, m),
		Rules:     location.NewRules(cfg.Location.MajorCities, cfg.Location.NationalParks),
		Precision: cfg.Geocoding.CachePrecision,
		Logger:    logger,
		Metrics:   m,
	})

	plan, err := planner.New(cfg.Paths.DestinationDir, cfg.Organize.FilenamePattern, logger)
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	org, err := New(Options{
		Source:      cfg.Paths.SourceDir,
		Destination: cfg.Paths.DestinationDir,
		DryRun:      opts.DryRun,
		MetricsPath: metricsPath,
		Scanner:     media.NewScanner(cfg.Organize.ExcludePatterns, cfg.Organize.Recursive, logger),
		Extractor:   media.NewExtractor(logger),
		Classifier:  classifier,
		Planner:     plan,
		Mover: mover.New(mover.Options{
			Copy:    cfg.CopyMode(),
			Verify:  cfg.Organize.Verify,
			Clock:   clock,
			Logger:  logger,
			Metrics: m,
		}),
		Clock:    clock,
		Logger:   logger,
		Metrics:  m,
		Progress: opts.Progress,
	})
	if err != nil {
		_ = cache.Close()
		return nil, err
	}
	return &Runtime{Organizer: org, Cache: cache, Metrics: m}, nil
}

// newResolver returns nil when no provider is configured, which files every
// GPS-tagged item under Unknown unless the cache knows it.
func newResolver(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger, m *metrics.Metrics) location.Resolver {
	client := geocode.NewHTTPClient(cfg.ProviderTimeout())
	var providers []geocode.Provider
	if cfg.Geocoding.LocationIQAPIKey != "" {
		providers = append(providers, geocode.NewLocationIQ(cfg.Geocoding.LocationIQAPIKey, cfg.Geocoding.LocationIQBaseURL, client))
	}
	if cfg.Geocoding.NominatimEnabled {
		providers = append(providers, geocode.NewNominatim(cfg.Geocoding.NominatimBaseURL, cfg.Geocoding.UserAgent, client))
	}
	if len(providers) == 0 {
		logging.WarnWithContext(logger, "no geocoding provider configured", "geocoding_disabled",
			logging.String(logging.FieldErrorHint, "set geocoding.locationiq_api_key or enable nominatim"),
			logging.String(logging.FieldImpact, "files with GPS are filed under Unknown unless cached"),
		)
		return nil
	}
	limiter := geocode.NewLimiter(cfg.MinInterval(), clock)
	return geocode.NewChain(providers, limiter, cfg.ProviderTimeout(), logger, m)
}

// cacheOrNil keeps a nil *Store from becoming a non-nil interface.
func cacheOrNil(store *geocache.Store) location.Cache {
	if store == nil {
		return nil
	}
	return store
}
