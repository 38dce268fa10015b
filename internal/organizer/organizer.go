package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"photosort/internal/faults"
	"photosort/internal/location"
	"photosort/internal/logging"
	"photosort/internal/media"
	"photosort/internal/metrics"
	"photosort/internal/mover"
	"photosort/internal/planner"
)

const (
	// TransactionLogName is written into the destination root after a real run.
	TransactionLogName = "transaction_log.json"
	// DuplicatesReportName is written into the destination root when collisions occurred.
	DuplicatesReportName = "duplicates_report.txt"
	// StateDirName holds the run lock and metrics textfile.
	StateDirName = ".photosort"
)

// Scanner lists candidate media files.
type Scanner interface {
	Scan(ctx context.Context, root string) (media.ScanResult, error)
}

// Classifier resolves coordinates to a location folder name.
type Classifier interface {
	Classify(ctx context.Context, lat, lon float64) (location.Result, error)
}

// Mover realizes a planned destination.
type Mover interface {
	Apply(ctx context.Context, source, destination string) error
	Operation() string
	Log() *mover.Log
}

// ProgressFunc observes per-file progress. done counts files finished so far.
type ProgressFunc func(done, total int, path string)

// Options configures an Organizer.
type Options struct {
	Source      string
	Destination string
	DryRun      bool
	// MetricsPath, when set, receives the run's metrics in textfile format.
	MetricsPath string

	Scanner    Scanner
	Extractor  media.Extractor
	Classifier Classifier
	Planner    *planner.Planner
	Mover      Mover
	Clock      clockwork.Clock
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Progress   ProgressFunc
}

// Organizer executes organize runs.
type Organizer struct {
	opts   Options
	clock  clockwork.Clock
	logger *slog.Logger
}

// New validates opts and returns an Organizer.
func New(opts Options) (*Organizer, error) {
	switch {
	case opts.Source == "":
		return nil, faults.Wrap(faults.ErrConfiguration, "organizer", "new", "source directory is required", nil)
	case opts.Destination == "":
		return nil, faults.Wrap(faults.ErrConfiguration, "organizer", "new", "destination directory is required", nil)
	case opts.Scanner == nil || opts.Extractor == nil || opts.Planner == nil || opts.Mover == nil:
		return nil, faults.Wrap(faults.ErrConfiguration, "organizer", "new", "scanner, extractor, planner and mover are required", nil)
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Organizer{
		opts:   opts,
		clock:  clock,
		logger: logging.NewComponentLogger(opts.Logger, "organizer"),
	}, nil
}

// Run organizes every file under the source directory. The returned Stats
// are populated even when err is non-nil; err is the context error when the
// run was interrupted, or a run-aborting setup failure.
func (o *Organizer) Run(ctx context.Context) (*Stats, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)
	stats := newStats(runID, o.clock.Now())

	logger.Info("starting organization",
		logging.String("source", o.opts.Source),
		logging.String("destination", o.opts.Destination),
		logging.String("mode", o.opts.Mover.Operation()),
		logging.Bool("dry_run", o.opts.DryRun),
	)

	if !o.opts.DryRun {
		if err := os.MkdirAll(o.opts.Destination, 0o755); err != nil {
			return stats, faults.Wrap(faults.ErrConfiguration, "organizer", "run", "create destination", err)
		}
		unlock, err := o.acquireLock()
		if err != nil {
			return stats, err
		}
		defer unlock()
	}

	scan, err := o.opts.Scanner.Scan(ctx, o.opts.Source)
	if err != nil {
		return stats, err
	}
	stats.Total = len(scan.Files)
	stats.Excluded = scan.Excluded
	if stats.Total == 0 {
		logger.Warn("no media files found", logging.String("source", o.opts.Source))
	}

	var duplicates []Duplicate
	var runErr error
	for i, path := range scan.Files {
		if err := ctx.Err(); err != nil {
			runErr = err
			stats.Canceled = true
			logger.Warn("organization interrupted",
				logging.Int("processed", i),
				logging.Int("remaining", len(scan.Files)-i),
			)
			break
		}
		dup, err := o.processFile(ctx, logger, path, stats)
		if dup != nil {
			duplicates = append(duplicates, *dup)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			runErr = err
			stats.Canceled = true
			break
		}
		if o.opts.Progress != nil {
			o.opts.Progress(i+1, len(scan.Files), path)
		}
	}

	o.finish(logger, stats, duplicates)
	return stats, runErr
}

// processFile handles one file. A non-nil Duplicate is returned when the
// target was renamed to avoid a collision. The error is only returned for
// cancellation; other failures are recorded in stats.
func (o *Organizer) processFile(ctx context.Context, logger *slog.Logger, path string, stats *Stats) (*Duplicate, error) {
	logger = logger.With(logging.String(logging.FieldFile, path))
	fail := func(msg string, err error) {
		stats.recordFailure(fmt.Sprintf("%s: %s", filepath.Base(path), msg), err)
		logging.ErrorWithContext(logger, "file not organized", "file_failed",
			logging.String("reason", msg),
			logging.String("kind", faults.Kind(err)),
			logging.Error(err),
		)
	}

	item, err := o.opts.Extractor.Extract(ctx, path)
	if err != nil {
		fail("metadata extraction failed", err)
		return nil, nil
	}
	stats.recordMetadata(item)

	locationName := ""
	if item.HasGPS() && o.opts.Classifier != nil {
		result, err := o.opts.Classifier.Classify(ctx, item.GPS.Latitude, item.GPS.Longitude)
		if err != nil {
			stats.Skipped++
			o.opts.Metrics.ObserveSkip()
			logger.Info("skipping file after cancellation during location lookup")
			return nil, err
		}
		locationName = result.Name
		stats.recordLocation(result)
	}

	plan := o.opts.Planner.Plan(item, locationName)
	target := plan.Path()
	resolved, err := o.opts.Planner.ResolveCollision(target, item)
	if err != nil {
		fail("no free destination name", err)
		return nil, nil
	}

	var dup *Duplicate
	if resolved != target {
		dup = &Duplicate{Original: path, Target: resolved}
		stats.Duplicates++
		o.opts.Metrics.ObserveCollision()
		logger.Info("destination name taken; renamed",
			logging.String("planned", target),
			logging.String("destination", resolved),
		)
	}

	if !o.opts.Planner.CreateDirectory(filepath.Dir(resolved), o.opts.DryRun) {
		fail("failed to create directory", faults.Wrap(faults.ErrFilesystem, "organizer", "create directory", filepath.Dir(resolved), nil))
		return dup, nil
	}

	if o.opts.DryRun {
		o.opts.Planner.Reserve(resolved)
		stats.Processed++
		logger.Info("dry run: would "+o.opts.Mover.Operation(),
			logging.String("destination", o.opts.Planner.RelativePath(resolved)),
		)
		return dup, nil
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	if err := o.opts.Mover.Apply(ctx, path, resolved); err != nil {
		fail("failed to "+o.opts.Mover.Operation(), err)
		return dup, nil
	}
	stats.Processed++
	stats.Bytes += size
	return dup, nil
}

// finish writes the end-of-run artifacts. Write failures are logged; they
// never turn a completed run into a failed one.
func (o *Organizer) finish(logger *slog.Logger, stats *Stats, duplicates []Duplicate) {
	stats.Elapsed = o.clock.Since(stats.Started)
	o.opts.Metrics.ObserveRun(stats.Elapsed)

	if o.opts.DryRun {
		logger.Info("dry run complete; no files were changed",
			logging.Int("planned", stats.Processed),
			logging.Int("duplicates", stats.Duplicates),
		)
		return
	}

	logPath := filepath.Join(o.opts.Destination, TransactionLogName)
	if err := o.opts.Mover.Log().Save(logPath); err != nil {
		logging.ErrorWithContext(logger, "failed to save transaction log", "transaction_log_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no audit trail for this run"),
		)
	} else {
		stats.TransactionLog = logPath
	}

	if len(duplicates) > 0 {
		reportPath := filepath.Join(o.opts.Destination, DuplicatesReportName)
		if err := WriteDuplicatesReport(reportPath, stats.RunID, duplicates); err != nil {
			logging.WarnWithContext(logger, "failed to save duplicates report", "duplicates_report_failed",
				logging.Error(err),
			)
		} else {
			stats.DuplicatesReport = reportPath
			logger.Info("duplicates report saved", logging.String("path", reportPath))
		}
	}

	if o.opts.MetricsPath != "" && o.opts.Metrics != nil {
		if err := o.opts.Metrics.WriteTextfile(o.opts.MetricsPath); err != nil {
			logger.Warn("failed to write metrics textfile", logging.Error(err))
		}
	}

	logger.Info("organization complete",
		logging.Int("total", stats.Total),
		logging.Int("processed", stats.Processed),
		logging.Int("failed", stats.Failed),
		logging.Int("duplicates", stats.Duplicates),
		logging.Duration("elapsed", stats.Elapsed),
	)
}
