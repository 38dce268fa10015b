// Package config loads, normalizes, and validates photosort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LOCATIONIQ_API_KEY. The Config type centralizes every knob the organizer
// and CLI need, so the source/destination trees, the geocode cache location,
// and the provider credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
