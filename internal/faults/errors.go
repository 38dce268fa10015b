package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCacheIO         = errors.New("cache io error")
	ErrGeocodeProvider = errors.New("geocode provider error")
	ErrPathExhausted   = errors.New("collision resolution exhausted")
	ErrIntegrity       = errors.New("integrity verification failed")
	ErrFilesystem      = errors.New("filesystem error")
	ErrConfiguration   = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker so callers can classify it with errors.Is. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFilesystem
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the first marker err carries, for summaries
// and metrics labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	case errors.Is(err, ErrPathExhausted):
		return "path_exhausted"
	case errors.Is(err, ErrGeocodeProvider):
		return "geocode"
	case errors.Is(err, ErrCacheIO):
		return "cache"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "filesystem"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{component, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
