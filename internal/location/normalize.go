package location

import (
	"strings"
	"unicode"
)

// NormalizeName makes a location usable as a directory name: spaces become
// underscores and anything other than letters, digits, underscore, or hyphen
// is dropped.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
