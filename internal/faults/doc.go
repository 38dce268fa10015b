// Package faults defines the sentinel error markers shared by photosort
// components. Cache and provider failures degrade silently to misses, while
// path, integrity, and filesystem failures fail a single file and are
// collected into the run summary.
package faults
