// Package geocache persists reverse-geocoding classifications keyed by
// rounded coordinates.
//
// Coordinates are rounded to a caller-supplied number of decimal places (4 by
// default, roughly 11 m) on both the read and write paths, so nearby photos
// share one entry. Writes are last-write-wins.
//
// # Storage
//
// Entries live in a SQLite database (default ~/.cache/photosort/geocache.db)
// opened in WAL mode. Lookups and writes never fail the caller: storage errors
// are logged and treated as a miss or a dropped write.
//
// # Usage
//
//	photosort cache stats           # Total and recent (30 day) entries
//	photosort cache list            # Newest entries
//	photosort cache clear-unknown   # Drop entries that resolved to Unknown
//	photosort cache clear           # Remove all entries
package geocache
