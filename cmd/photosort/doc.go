// Package main hosts the photosort CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, applies flag overrides, and
// hands off to the internal packages: organize drives the organizer, cache
// manages the geocode cache, check runs preflight, and the small utility
// commands expose distance and verification helpers.
//
// Keep this package thin. New behavior belongs in internal packages first
// and is surfaced here through commands or flags.
package main
