// Package exiftool provides a typed wrapper around exiftool JSON output.
//
// It has no photosort-specific dependencies. Only the capture date and GPS
// position are extracted.
//
// Primary entry point:
//   - Inspect: executes exiftool and returns a parsed Result
//   - Parse: decodes an exiftool -j -G -n payload without running the binary
package exiftool
