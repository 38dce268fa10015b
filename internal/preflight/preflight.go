package preflight

import (
	"context"

	"photosort/internal/config"
	"photosort/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Options selects which checks RunAll performs.
type Options struct {
	// DryRun skips the destination write and free-space checks.
	DryRun bool
	// Network adds provider reachability checks.
	Network bool
}

// RunAll executes the preflight checks applicable to cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckReadable("Source directory", cfg.Paths.SourceDir))

	if !opts.DryRun {
		results = append(results,
			CheckDirectoryAccess("Destination directory", nearestExisting(cfg.Paths.DestinationDir)),
			CheckDiskSpace("Destination free space", cfg.Paths.DestinationDir, uint64(cfg.Organize.MinFreeGiB)<<30),
		)
	}

	results = append(results, CheckBinary(deps.Requirement{
		Name:     "exiftool",
		Command:  "exiftool",
		Purpose:  "Reads capture dates and GPS from videos and HEIC images",
		Optional: true,
	}))

	if opts.Network {
		if cfg.Geocoding.LocationIQAPIKey != "" {
			results = append(results, CheckProvider(ctx, "LocationIQ", cfg.Geocoding.LocationIQBaseURL))
		}
		if cfg.Geocoding.NominatimEnabled {
			results = append(results, CheckProvider(ctx, "Nominatim", cfg.Geocoding.NominatimBaseURL))
		}
	}
	return results
}

// Failures returns the required checks that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
