package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"photosort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Source and destination exist; geocoding providers point at an unroutable
// address so tests never reach the network unless they override the URLs.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.DestinationDir = filepath.Join(base, "library")
	cfgVal.Paths.CachePath = filepath.Join(base, "cache", "geocache.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Geocoding.LocationIQAPIKey = ""
	cfgVal.Geocoding.NominatimEnabled = false
	cfgVal.Geocoding.MinIntervalMillis = 1
	cfgVal.Organize.MinFreeGiB = 0

	for _, dir := range []string{cfgVal.Paths.SourceDir, cfgVal.Paths.DestinationDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode sets the organize mode (move or copy).
func WithMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.Mode = mode
	}
}

// WithFilenamePattern overrides the filename template.
func WithFilenamePattern(pattern string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.FilenamePattern = pattern
	}
}

// WithNominatim enables the Nominatim provider at baseURL.
func WithNominatim(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Geocoding.NominatimEnabled = true
		b.cfg.Geocoding.NominatimBaseURL = baseURL
	}
}

// WithoutCache disables the geocode cache.
func WithoutCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Geocoding.CacheEnabled = false
	}
}

// WithStubbedBinaries writes executables with the given scripts and prepends
// them to PATH. Keys are binary names, values the script body.
func WithStubbedBinaries(scripts map[string]string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for name, body := range scripts {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}
