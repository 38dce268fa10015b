package main

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"photosort/internal/organizer"
	"photosort/internal/preflight"
)

// maxSummaryLocations bounds the per-location table in the run summary.
const maxSummaryLocations = 10

// maxSummaryErrors bounds the error list printed after a run.
const maxSummaryErrors = 10

func renderSummary(stats *organizer.Stats, dryRun bool) string {
	title := "Organization summary"
	if dryRun {
		title = "Dry run summary (no files changed)"
	}
	dateSource := fmt.Sprintf("%d with date, %d without", stats.WithDate, stats.WithoutDate)
	rows := [][]string{
		{"Run ID", stats.RunID},
		{"Files found", strconv.Itoa(stats.Total)},
		{"Excluded", strconv.Itoa(stats.Excluded)},
		{"Processed", strconv.Itoa(stats.Processed)},
		{"Failed", strconv.Itoa(stats.Failed)},
		{"Skipped", strconv.Itoa(stats.Skipped)},
		{"Duplicates renamed", strconv.Itoa(stats.Duplicates)},
		{"With GPS", fmt.Sprintf("%d (%d without)", stats.WithGPS, stats.WithoutGPS)},
		{"Capture dates", dateSource},
		{"Cache hits", strconv.Itoa(stats.CacheHits)},
		{"Provider lookups", strconv.Itoa(stats.ProviderLookups)},
		{"Data", humanize.IBytes(uint64(max(stats.Bytes, 0)))},
		{"Elapsed", stats.Elapsed.Round(time.Millisecond).String()},
		{"Rate", fmt.Sprintf("%.1f files/s", stats.FilesPerSecond())},
	}
	if stats.TransactionLog != "" {
		rows = append(rows, []string{"Transaction log", stats.TransactionLog})
	}
	if stats.DuplicatesReport != "" {
		rows = append(rows, []string{"Duplicates report", stats.DuplicatesReport})
	}

	var b strings.Builder
	b.WriteString(renderTable(title, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if locations := topLocations(stats.Locations, maxSummaryLocations); len(locations) > 0 {
		b.WriteString("\n")
		b.WriteString(renderTable("Locations", []string{"Location", "Files"}, locations, []columnAlignment{alignLeft, alignRight}))
	}
	if len(stats.Errors) > 0 {
		b.WriteString("\n\nErrors\n")
		for i, msg := range stats.Errors {
			if i == maxSummaryErrors {
				fmt.Fprintf(&b, "  ... and %d more (see log)\n", stats.Failed-maxSummaryErrors)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", msg)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func topLocations(counts map[string]int, limit int) [][]string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.name, strconv.Itoa(e.count)})
	}
	return rows
}

func renderPreview(items []organizer.PreviewItem, total int) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Source,
			item.Target,
			yesNo(item.HasGPS),
			yesNo(item.HasDate),
		})
	}
	title := fmt.Sprintf("Planned moves (showing %d of %d files)", len(items), total)
	return renderTable(title, []string{"Source", "Target", "GPS", "Date"}, rows, nil)
}

func renderPreflight(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		switch {
		case !r.Passed && r.Optional:
			status = "warn"
		case !r.Passed:
			status = "FAIL"
		}
		rows = append(rows, []string{r.Name, status, r.Detail})
	}
	return renderTable("Preflight", []string{"Check", "Status", "Detail"}, rows, nil)
}
