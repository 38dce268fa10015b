// Package preflight provides readiness checks for the filesystem paths and
// services photosort depends on.
//
// These checks run in two contexts:
//   - "photosort organize" calls RunAll before scanning and aborts when a
//     required check fails, so a run never starts against an unwritable or
//     full destination.
//   - "photosort check" runs the same checks plus provider reachability and
//     prints every result.
//
// Optional checks (exiftool, providers) report but never block a run.
package preflight
