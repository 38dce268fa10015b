// Package logging assembles structured slog loggers and formatting helpers used
// across photosort.
//
// It owns the configurable console/JSON handlers, tees records into a JSON
// log file when a log directory is configured, and exposes context helpers so
// every line of an organize run carries its run ID. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
package logging
