package geocode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"photosort/internal/faults"
	"photosort/internal/logging"
	"photosort/internal/metrics"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 10 * time.Second

// ErrNoAddress is returned when every provider in a chain failed.
var ErrNoAddress = errors.New("no provider returned an address")

// Provider resolves coordinates to an address.
type Provider interface {
	Name() string
	ReverseGeocode(ctx context.Context, lat, lon float64) (Address, error)
}

// Chain tries providers in order and returns the first usable address. Each
// call is preceded by the shared limiter and bounded by the per-call timeout.
// A failure falls through to the next provider once; there are no retries.
type Chain struct {
	providers []Provider
	limiter   *Limiter
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewChain assembles a provider chain. Nil providers are dropped.
func NewChain(providers []Provider, limiter *Limiter, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Chain {
	kept := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{
		providers: kept,
		limiter:   limiter,
		timeout:   timeout,
		logger:    logging.NewComponentLogger(logger, "geocode"),
		metrics:   m,
	}
}

// Providers returns the provider names in call order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Lookup returns the first non-empty address and the name of the provider
// that produced it. Context cancellation aborts the chain immediately.
func (c *Chain) Lookup(ctx context.Context, lat, lon float64) (Address, string, error) {
	for _, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return Address{}, "", err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return Address{}, "", err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		addr, err := provider.ReverseGeocode(callCtx, lat, lon)
		elapsed := time.Since(start)
		cancel()

		switch {
		case err != nil:
			c.metrics.ObserveGeocode(provider.Name(), "error", elapsed)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Address{}, "", ctxErr
			}
			c.logger.Debug("provider failed; trying next",
				logging.String("provider", provider.Name()),
				logging.Coordinates(lat, lon),
				logging.Duration("elapsed", elapsed),
				logging.Error(err),
			)
			continue
		case addr.Empty():
			c.metrics.ObserveGeocode(provider.Name(), "empty", elapsed)
			c.logger.Debug("provider returned empty address; trying next",
				logging.String("provider", provider.Name()),
			)
			continue
		}

		c.metrics.ObserveGeocode(provider.Name(), "success", elapsed)
		return addr, provider.Name(), nil
	}
	return Address{}, "", faults.Wrap(faults.ErrGeocodeProvider, "geocode", "reverse", "", ErrNoAddress)
}
