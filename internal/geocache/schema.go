package geocache

import (
	"context"
	_ "embed"
	"fmt"

	"photosort/internal/faults"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "schema", "check schema_version table", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "schema", "read schema version", err)
	}
	if version != schemaVersion {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "schema",
			fmt.Sprintf("database has version %d, expected %d (delete %s to rebuild)", version, schemaVersion, s.path), nil)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "schema", "begin schema tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "schema", "create schema", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "schema", "record schema version", err)
	}
	if err := tx.Commit(); err != nil {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "schema", "commit schema", err)
	}
	return nil
}
