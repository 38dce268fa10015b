// Package media discovers photo and video files and extracts the metadata
// the organizer needs from them: capture time and GPS position.
//
// Scanner walks a source tree applying extension and exclude filters.
// MetadataExtractor reads EXIF with goexif and falls back to exiftool for
// formats goexif cannot parse, then to the file modification time for the
// capture date.
package media
