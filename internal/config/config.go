package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the source/destination trees and local state locations.
type Paths struct {
	SourceDir      string `toml:"source_dir"`
	DestinationDir string `toml:"destination_dir"`
	CachePath      string `toml:"cache_path"`
	LogDir         string `toml:"log_dir"`
}

// Geocoding contains reverse-geocoding provider and cache settings.
type Geocoding struct {
	CacheEnabled      bool   `toml:"cache_enabled"`
	CachePrecision    int    `toml:"cache_precision"`
	LocationIQAPIKey  string `toml:"locationiq_api_key"`
	LocationIQBaseURL string `toml:"locationiq_base_url"`
	NominatimEnabled  bool   `toml:"nominatim_enabled"`
	NominatimBaseURL  string `toml:"nominatim_base_url"`
	UserAgent         string `toml:"user_agent"`
	MinIntervalMillis int    `toml:"min_interval_ms"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Location contains the granularity classification lists.
type Location struct {
	MajorCities             []string `toml:"major_cities"`
	NationalParks           []string `toml:"national_parks"`
	ClusteringDistanceMiles float64  `toml:"clustering_distance_miles"`
}

// Organize contains the relocation behavior.
type Organize struct {
	Mode            string   `toml:"mode"`
	Verify          bool     `toml:"verify"`
	FilenamePattern string   `toml:"filename_pattern"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       bool     `toml:"recursive"`
	MinFreeGiB      int      `toml:"min_free_gib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Metrics controls the per-run Prometheus textfile.
type Metrics struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for photosort.
//
// Configuration sections by subsystem:
//   - Paths: source and destination trees, cache database, logs
//   - Geocoding: LocationIQ/Nominatim providers, rate limit, cache precision
//   - Location: major cities and national parks used by the classifier
//   - Organize: move/copy mode, verification, filename template, excludes
//   - Logging: log format and level
//   - Metrics: optional Prometheus textfile output
type Config struct {
	Paths     Paths     `toml:"paths"`
	Geocoding Geocoding `toml:"geocoding"`
	Location  Location  `toml:"location"`
	Organize  Organize  `toml:"organize"`
	Logging   Logging   `toml:"logging"`
	Metrics   Metrics   `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("photosort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the cache database parent.
// The destination tree is created lazily by the planner so dry runs never
// touch it.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Geocoding.CacheEnabled && c.Paths.CachePath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.CachePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MinInterval returns the minimum spacing between provider calls.
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.Geocoding.MinIntervalMillis) * time.Millisecond
}

// ProviderTimeout returns the per-call provider timeout.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Geocoding.TimeoutSeconds) * time.Second
}

// CopyMode reports whether files are copied rather than moved.
func (c *Config) CopyMode() bool {
	return c.Organize.Mode == ModeCopy
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "photosort", "geocache.db")
	}
	return "~/.cache/photosort/geocache.db"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML. API keys are masked.
func (c *Config) Encode() ([]byte, error) {
	clone := *c
	if clone.Geocoding.LocationIQAPIKey != "" {
		clone.Geocoding.LocationIQAPIKey = "********"
	}
	return toml.Marshal(clone)
}
