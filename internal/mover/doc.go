// Package mover realizes planned destinations: it moves or copies each file,
// optionally verifies the copy byte for byte, and appends one Record per
// attempt to an in-memory Log that is written once at the end of a run.
//
// The log is an audit trail only; nothing replays it.
package mover
