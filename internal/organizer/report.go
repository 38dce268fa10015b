package organizer

import (
	"fmt"
	"strings"

	"photosort/internal/fileutil"
)

// Duplicate records a file whose planned destination was already taken.
type Duplicate struct {
	Original string
	Target   string
}

// WriteDuplicatesReport writes the human-readable collision report.
func WriteDuplicatesReport(path, runID string, duplicates []Duplicate) error {
	var b strings.Builder
	b.WriteString("DUPLICATE FILES REPORT\n")
	b.WriteString(strings.Repeat("=", 80))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total duplicates found: %d\n", len(duplicates))
	if runID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", runID)
	}
	b.WriteString("\n")
	for i, dup := range duplicates {
		fmt.Fprintf(&b, "%d. Original: %s\n", i+1, dup.Original)
		fmt.Fprintf(&b, "   Target:   %s\n\n", dup.Target)
	}
	return fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644)
}
