// Package organizer runs one organize pass over a source tree: scan, extract
// metadata, classify the location, plan the target path, resolve collisions,
// and move or copy each file into the destination library.
//
// Files are processed strictly in order. Cancellation is observed between
// files; the file in flight always finishes. A per-file failure is recorded
// in Stats and the run continues. At the end of a real (non dry-run) pass the
// transaction log, the duplicates report (when a collision occurred), and the
// optional metrics textfile are written into the destination.
//
// NewFromConfig is the composition root used by the CLI; New accepts
// explicit collaborators for tests.
package organizer
