package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGeocoding()
	c.normalizeLocation()
	c.normalizeOrganize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.DestinationDir, err = expandPath(strings.TrimSpace(c.Paths.DestinationDir)); err != nil {
		return fmt.Errorf("paths.destination_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath()
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGeocoding() {
	if c.Geocoding.LocationIQAPIKey == "" {
		if value, ok := os.LookupEnv("LOCATIONIQ_API_KEY"); ok {
			c.Geocoding.LocationIQAPIKey = value
		}
	}
	c.Geocoding.LocationIQAPIKey = strings.TrimSpace(c.Geocoding.LocationIQAPIKey)
	c.Geocoding.LocationIQBaseURL = strings.TrimRight(strings.TrimSpace(c.Geocoding.LocationIQBaseURL), "/")
	if c.Geocoding.LocationIQBaseURL == "" {
		c.Geocoding.LocationIQBaseURL = defaultLocationIQBaseURL
	}
	c.Geocoding.NominatimBaseURL = strings.TrimRight(strings.TrimSpace(c.Geocoding.NominatimBaseURL), "/")
	if c.Geocoding.NominatimBaseURL == "" {
		c.Geocoding.NominatimBaseURL = defaultNominatimBaseURL
	}
	c.Geocoding.UserAgent = strings.TrimSpace(c.Geocoding.UserAgent)
	if c.Geocoding.UserAgent == "" {
		c.Geocoding.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLocation() {
	c.Location.MajorCities = trimList(c.Location.MajorCities)
	c.Location.NationalParks = trimList(c.Location.NationalParks)
}

func (c *Config) normalizeOrganize() {
	c.Organize.Mode = strings.ToLower(strings.TrimSpace(c.Organize.Mode))
	if c.Organize.Mode == "" {
		c.Organize.Mode = ModeMove
	}
	if strings.TrimSpace(c.Organize.FilenamePattern) == "" {
		c.Organize.FilenamePattern = defaultFilenamePattern
	}
	c.Organize.ExcludePatterns = trimList(c.Organize.ExcludePatterns)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
