package geocache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"photosort/internal/faults"
	"photosort/internal/logging"
)

// Store manages geocode cache persistence backed by SQLite.
// A nil *Store is a valid, disabled cache: lookups miss and writes are dropped.
type Store struct {
	db     *sql.DB
	path   string
	clock  clockwork.Clock
	logger *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp cached_at.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Open initializes or connects to the cache database at path and creates the schema.
func Open(path string, logger *slog.Logger, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "geocache", "open", "cache path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrCacheIO, "geocache", "open", "create cache directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrCacheIO, "geocache", "open", "open sqlite db", err)
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, faults.Wrap(faults.ErrCacheIO, "geocache", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		clock:  clockwork.NewRealClock(),
		logger: logging.NewComponentLogger(logger, "geocache"),
	}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Enabled reports whether the store is backed by a database.
func (s *Store) Enabled() bool {
	return s != nil && s.db != nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
