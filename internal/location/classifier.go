package location

import (
	"context"
	"log/slog"

	"photosort/internal/geocache"
	"photosort/internal/geocode"
	"photosort/internal/logging"
	"photosort/internal/metrics"
)

// SourceCache marks results served from the geocode cache.
const SourceCache = "cache"

// Cache is the subset of the geocode cache the classifier needs.
type Cache interface {
	Get(ctx context.Context, lat, lon float64, precision int) (geocache.Entry, bool)
	Set(ctx context.Context, lat, lon float64, entry geocache.Entry, precision int)
}

// Resolver turns coordinates into an address.
type Resolver interface {
	Lookup(ctx context.Context, lat, lon float64) (geocode.Address, string, error)
}

// Result is one classification.
type Result struct {
	Name        string
	Granularity Granularity
	Address     geocode.Address
	// Source is SourceCache, the provider name, or empty when unresolved.
	Source string
}

// Classifier resolves coordinates to a location folder name, consulting the
// cache before the provider chain and writing successful results through.
type Classifier struct {
	cache     Cache
	resolver  Resolver
	rules     *Rules
	precision int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Options configures a Classifier.
type Options struct {
	Cache     Cache
	Resolver  Resolver
	Rules     *Rules
	Precision int
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// NewClassifier builds a classifier. A nil cache or resolver disables that stage.
func NewClassifier(opts Options) *Classifier {
	rules := opts.Rules
	if rules == nil {
		rules = NewRules(nil, nil)
	}
	return &Classifier{
		cache:     opts.Cache,
		resolver:  opts.Resolver,
		rules:     rules,
		precision: opts.Precision,
		logger:    logging.NewComponentLogger(opts.Logger, "location"),
		metrics:   opts.Metrics,
	}
}

// Classify returns the location name for (lat, lon). Provider failures yield
// Unknown, which is never cached. The error is non-nil only when ctx ended
// while a provider call was pending.
func (c *Classifier) Classify(ctx context.Context, lat, lon float64) (Result, error) {
	if c.cache != nil {
		if entry, ok := c.cache.Get(ctx, lat, lon, c.precision); ok {
			c.metrics.ObserveCacheLookup(true)
			return Result{
				Name:        entry.LocationName,
				Granularity: Granularity(entry.Granularity),
				Address: geocode.Address{
					Country: entry.Country,
					State:   entry.State,
					City:    entry.City,
				},
				Source: SourceCache,
			}, nil
		}
		c.metrics.ObserveCacheLookup(false)
	}

	unknown := Result{Name: Unknown, Granularity: GranularityUnknown}
	if c.resolver == nil {
		return unknown, nil
	}

	addr, provider, err := c.resolver.Lookup(ctx, lat, lon)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return unknown, ctxErr
		}
		c.logger.Info("no provider resolved coordinates",
			logging.Coordinates(lat, lon),
			logging.Error(err),
		)
		c.metrics.ObserveClassification(string(GranularityUnknown))
		return unknown, nil
	}

	name, granularity := c.rules.Apply(addr)
	c.metrics.ObserveClassification(string(granularity))
	result := Result{Name: name, Granularity: granularity, Address: addr, Source: provider}

	c.logger.Debug("classified location",
		logging.String("location", name),
		logging.String("granularity", string(granularity)),
		logging.String("provider", provider),
	)

	if name != Unknown && c.cache != nil {
		c.cache.Set(ctx, lat, lon, geocache.Entry{
			LocationName: name,
			Granularity:  string(granularity),
			Country:      addr.Country,
			State:        addr.State,
			City:         addr.City,
		}, c.precision)
	}
	return result, nil
}

// ClassifyAddress applies the granularity rules without cache or providers.
func (c *Classifier) ClassifyAddress(addr geocode.Address) (string, Granularity) {
	return c.rules.Apply(addr)
}
