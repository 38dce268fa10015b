package mover

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"syscall"

	"github.com/jonboulle/clockwork"

	"photosort/internal/faults"
	"photosort/internal/fileutil"
	"photosort/internal/logging"
	"photosort/internal/metrics"
)

// Operation names recorded in the log.
const (
	OperationMove = "move"
	OperationCopy = "copy"
)

// Options configures a Mover.
type Options struct {
	// Copy selects copy mode; the default moves files.
	Copy bool
	// Verify compares source and destination after a copy.
	Verify  bool
	Log     *Log
	Clock   clockwork.Clock
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Mover performs file operations and records each attempt.
type Mover struct {
	operation string
	verify    bool
	log       *Log
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics

	rename   func(src, dst string) error
	copyFile func(src, dst string) (int64, error)
}

// New builds a mover. Mode and verification are fixed for its lifetime.
func New(opts Options) *Mover {
	operation := OperationMove
	if opts.Copy {
		operation = OperationCopy
	}
	log := opts.Log
	if log == nil {
		log = NewLog()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Mover{
		operation: operation,
		verify:    opts.Verify,
		log:       log,
		clock:     clock,
		logger:    logging.NewComponentLogger(opts.Logger, "mover"),
		metrics:   opts.Metrics,
		rename:    os.Rename,
		copyFile:  fileutil.CopyFile,
	}
}

// Operation returns the configured operation name.
func (m *Mover) Operation() string {
	return m.operation
}

// Log returns the transaction log this mover appends to.
func (m *Mover) Log() *Log {
	return m.log
}

// Apply moves or copies source to destination. A nil error means the file is
// in place (and verified, when enabled). Every call appends one record.
// An existing destination is never overwritten.
func (m *Mover) Apply(ctx context.Context, source, destination string) error {
	logger := logging.WithContext(ctx, m.logger).With(
		logging.String(logging.FieldFile, source),
		logging.String("destination", destination),
	)

	var (
		bytes int64
		err   error
	)
	if _, statErr := os.Lstat(destination); statErr == nil {
		err = faults.Wrap(faults.ErrFilesystem, "mover", m.operation, "destination already exists", os.ErrExist)
	} else if m.operation == OperationMove {
		bytes, err = m.move(logger, source, destination)
	} else {
		bytes, err = m.copy(source, destination)
	}

	m.record(source, destination, err)
	m.metrics.ObserveFileOperation(m.operation, err == nil, bytes)
	if err != nil {
		logging.ErrorWithContext(logger, "file operation failed", "file_operation_failed",
			logging.String("operation", m.operation),
			logging.String("kind", faults.Kind(err)),
			logging.Error(err),
		)
		return err
	}
	logger.Debug("file operation complete",
		logging.String("operation", m.operation),
		logging.Int64("bytes", bytes),
	)
	return nil
}

// move renames source, falling back to copy plus delete across filesystems.
// A plain rename is trusted without hashing.
func (m *Mover) move(logger *slog.Logger, source, destination string) (int64, error) {
	info, err := os.Stat(source)
	if err != nil {
		return 0, faults.Wrap(faults.ErrFilesystem, "mover", "move", "stat source", err)
	}
	renameErr := m.rename(source, destination)
	if renameErr == nil {
		return info.Size(), nil
	}

	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return 0, faults.Wrap(faults.ErrFilesystem, "mover", "move", "rename", renameErr)
	}

	logger.Debug("cross-device move; copying instead")
	written, err := m.copyFile(source, destination)
	if err != nil {
		return written, faults.Wrap(faults.ErrFilesystem, "mover", "move", "cross-device copy", err)
	}
	if err := m.Verify(source, destination); err != nil {
		return written, err
	}
	if err := os.Remove(source); err != nil {
		logging.WarnWithContext(logger, "failed to remove source after cross-device copy", "move_source_cleanup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the source file manually once the copy is confirmed"),
			logging.String(logging.FieldImpact, "the file now exists in both trees"),
		)
	}
	return written, nil
}

func (m *Mover) copy(source, destination string) (int64, error) {
	written, err := m.copyFile(source, destination)
	if err != nil {
		return written, faults.Wrap(faults.ErrFilesystem, "mover", "copy", "", err)
	}
	if m.verify {
		if err := m.Verify(source, destination); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Verify compares source and destination and deletes destination when they
// differ, returning an error marked faults.ErrIntegrity.
func (m *Mover) Verify(source, destination string) error {
	same, err := fileutil.SameContent(source, destination)
	if err == nil && same {
		return nil
	}
	if rmErr := os.Remove(destination); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		m.logger.Warn("failed to remove unverified destination",
			logging.String("destination", destination),
			logging.Error(rmErr),
		)
	}
	return faults.Wrap(faults.ErrIntegrity, "mover", "verify", destination, err)
}

func (m *Mover) record(source, destination string, err error) {
	rec := Record{
		Timestamp:   m.clock.Now(),
		Operation:   m.operation,
		Source:      source,
		Destination: destination,
		Success:     err == nil,
	}
	if err != nil {
		msg := err.Error()
		rec.Error = &msg
	}
	m.log.Append(rec)
}

// VerifyFiles reports whether a and b have identical contents.
func VerifyFiles(a, b string) (bool, error) {
	return fileutil.SameContent(a, b)
}
