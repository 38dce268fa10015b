package geocache

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"photosort/internal/faults"
	"photosort/internal/logging"
)

// UnknownLocation is the sentinel name for unresolved coordinates.
const UnknownLocation = "Unknown"

// RecentWindow bounds the "recent" count reported by Stats.
const RecentWindow = 30 * 24 * time.Hour

// cached_at is fixed-width so string comparison orders chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Entry is a cached classification for one rounded coordinate pair.
type Entry struct {
	Latitude     float64
	Longitude    float64
	LocationName string
	Granularity  string
	Country      string
	State        string
	City         string
	CachedAt     time.Time
}

// Stats summarizes cache contents.
type Stats struct {
	Path   string
	Total  int64
	Recent int64
}

// Round rounds v to precision decimal places, half away from zero.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// Get returns the entry stored for (lat, lon) rounded to precision. Storage
// failures are logged and reported as a miss.
func (s *Store) Get(ctx context.Context, lat, lon float64, precision int) (Entry, bool) {
	if !s.Enabled() {
		return Entry{}, false
	}
	rlat, rlon := Round(lat, precision), Round(lon, precision)

	row := s.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, location_name, granularity, country, state, city, cached_at
         FROM geocoding_cache WHERE latitude = ? AND longitude = ?`,
		rlat, rlon,
	)
	entry, err := scanEntry(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.warn("cache lookup failed; treating as miss", "cache_read_failed", err)
		}
		return Entry{}, false
	}
	return entry, true
}

// Set upserts entry under (lat, lon) rounded to precision. The entry's own
// coordinates and CachedAt are ignored. Failures are logged and swallowed.
func (s *Store) Set(ctx context.Context, lat, lon float64, entry Entry, precision int) {
	if !s.Enabled() {
		return
	}
	rlat, rlon := Round(lat, precision), Round(lon, precision)
	now := s.clock.Now().UTC().Format(timestampLayout)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO geocoding_cache
            (latitude, longitude, location_name, granularity, country, state, city, cached_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rlat, rlon,
		entry.LocationName,
		entry.Granularity,
		nullableString(entry.Country),
		nullableString(entry.State),
		nullableString(entry.City),
		now,
	)
	if err != nil {
		s.warn("cache write failed; result not persisted", "cache_write_failed", err)
		return
	}
	s.logger.Debug("cached location",
		logging.Coordinates(rlat, rlon),
		logging.String("location", entry.LocationName),
	)
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM geocoding_cache"); err != nil {
		return faults.Wrap(faults.ErrCacheIO, "geocache", "clear", "", err)
	}
	return nil
}

// ClearUnknown removes entries whose location resolved to Unknown and returns
// how many were deleted.
func (s *Store) ClearUnknown(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM geocoding_cache WHERE location_name = ?", UnknownLocation)
	if err != nil {
		return 0, faults.Wrap(faults.ErrCacheIO, "geocache", "clear unknown", "", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, faults.Wrap(faults.ErrCacheIO, "geocache", "clear unknown", "rows affected", err)
	}
	return removed, nil
}

// Stats reports the total entry count and entries cached within RecentWindow.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.Path()}
	if !s.Enabled() {
		return stats, nil
	}
	cutoff := s.clock.Now().Add(-RecentWindow).UTC().Format(timestampLayout)
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(CASE WHEN cached_at >= ? THEN 1 ELSE 0 END), 0)
         FROM geocoding_cache`,
		cutoff,
	)
	if err := row.Scan(&stats.Total, &stats.Recent); err != nil {
		return stats, faults.Wrap(faults.ErrCacheIO, "geocache", "stats", "", err)
	}
	return stats, nil
}

// List returns up to limit entries, newest first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT latitude, longitude, location_name, granularity, country, state, city, cached_at
         FROM geocoding_cache ORDER BY cached_at DESC, latitude, longitude LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, faults.Wrap(faults.ErrCacheIO, "geocache", "list", "", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrCacheIO, "geocache", "list", "scan row", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrCacheIO, "geocache", "list", "iterate rows", err)
	}
	return entries, nil
}

func (s *Store) warn(msg, eventType string, err error) {
	logging.WarnWithContext(s.logger, msg, eventType,
		logging.String("db_path", s.path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions and free space for the cache database"),
		logging.String(logging.FieldImpact, "location is geocoded again instead of read from the cache"),
	)
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		granularity          sql.NullString
		country, state, city sql.NullString
		cachedAt             string
		e                    Entry
	)
	if err := scanner.Scan(&e.Latitude, &e.Longitude, &e.LocationName, &granularity, &country, &state, &city, &cachedAt); err != nil {
		return Entry{}, err
	}
	e.Granularity = granularity.String
	e.Country = country.String
	e.State = state.String
	e.City = city.String
	if ts, err := time.Parse(timestampLayout, cachedAt); err == nil {
		e.CachedAt = ts
	}
	return e, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
