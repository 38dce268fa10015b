package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGeocoding(); err != nil {
		return err
	}
	if err := c.validateLocation(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGeocoding() error {
	if err := ensurePositiveMap(map[string]int{
		"geocoding.min_interval_ms": c.Geocoding.MinIntervalMillis,
		"geocoding.timeout_seconds": c.Geocoding.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Geocoding.CachePrecision < 0 || c.Geocoding.CachePrecision > 8 {
		return errors.New("geocoding.cache_precision must be between 0 and 8")
	}
	return nil
}

func (c *Config) validateLocation() error {
	if c.Location.ClusteringDistanceMiles < 0 {
		return errors.New("location.clustering_distance_miles must be >= 0")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	switch c.Organize.Mode {
	case ModeMove, ModeCopy:
	default:
		return fmt.Errorf("organize.mode: unsupported value %q (want move or copy)", c.Organize.Mode)
	}
	if strings.ContainsAny(c.Organize.FilenamePattern, `/\`) {
		return errors.New("organize.filename_pattern must not contain path separators")
	}
	if c.Organize.MinFreeGiB < 0 {
		return errors.New("organize.min_free_gib must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ValidateRun checks the settings that only matter when organizing.
func (c *Config) ValidateRun() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir is required (set it in the config or pass --source)")
	}
	if strings.TrimSpace(c.Paths.DestinationDir) == "" {
		return errors.New("paths.destination_dir is required (set it in the config or pass --dest)")
	}
	if c.Paths.SourceDir == c.Paths.DestinationDir {
		return errors.New("paths.source_dir and paths.destination_dir must differ")
	}
	nested, err := within(c.Paths.SourceDir, c.Paths.DestinationDir)
	if err != nil {
		return fmt.Errorf("compare source and destination: %w", err)
	}
	if nested {
		return fmt.Errorf("paths.destination_dir %q is inside paths.source_dir %q; organized files would be scanned again", c.Paths.DestinationDir, c.Paths.SourceDir)
	}
	return nil
}

// within reports whether path is root or lies beneath it.
func within(root, path string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false, nil
	}
	if rel == "." {
		return true, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
