package geocache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"photosort/internal/geocache"
	"photosort/internal/logging"
)

func openStore(t *testing.T, clock clockwork.Clock) (*geocache.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "geocache.db")
	store, err := geocache.Open(path, logging.NewNop(), geocache.WithClock(clock))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSetGetRoundsCoordinates(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t, clockwork.NewFakeClock())

	store.Set(ctx, 37.77491, -122.41941, geocache.Entry{
		LocationName: "CA-San_Francisco",
		Granularity:  "major_city",
		Country:      "United States",
		State:        "California",
		City:         "San Francisco",
	}, 4)

	entry, ok := store.Get(ctx, 37.77489, -122.41938, 4)
	if !ok {
		t.Fatal("expected cache hit for coordinates rounding to the same key")
	}
	if entry.LocationName != "CA-San_Francisco" || entry.Granularity != "major_city" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Latitude != 37.7749 || entry.Longitude != -122.4194 {
		t.Fatalf("expected rounded key, got %v,%v", entry.Latitude, entry.Longitude)
	}
	if entry.City != "San Francisco" {
		t.Fatalf("expected raw city preserved, got %q", entry.City)
	}

	if _, ok := store.Get(ctx, 37.7751, -122.4194, 4); ok {
		t.Fatal("expected miss for a different rounded key")
	}
}

func TestSetIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t, clockwork.NewFakeClock())

	store.Set(ctx, 10, 20, geocache.Entry{LocationName: "First", Granularity: "country"}, 4)
	store.Set(ctx, 10, 20, geocache.Entry{LocationName: "Second", Granularity: "country"}, 4)

	entry, ok := store.Get(ctx, 10, 20, 4)
	if !ok || entry.LocationName != "Second" {
		t.Fatalf("expected last write to win, got %+v (hit=%v)", entry, ok)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 1 {
		t.Fatalf("expected a single entry per key, got %d", stats.Total)
	}
}

func TestStatsCountsRecentEntries(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	store, path := openStore(t, clock)

	store.Set(ctx, 1, 1, geocache.Entry{LocationName: "Old", Granularity: "country"}, 4)
	clock.Advance(31 * 24 * time.Hour)
	store.Set(ctx, 2, 2, geocache.Entry{LocationName: "New", Granularity: "country"}, 4)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 2 || stats.Recent != 1 {
		t.Fatalf("expected total=2 recent=1, got %+v", stats)
	}
	if stats.Path != path {
		t.Fatalf("unexpected path %q", stats.Path)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].LocationName != "New" {
		t.Fatalf("expected newest first, got %+v", entries)
	}
	if !entries[0].CachedAt.Equal(clock.Now()) {
		t.Fatalf("expected cached_at from clock, got %s", entries[0].CachedAt)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestClearUnknownAndClear(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t, clockwork.NewFakeClock())

	store.Set(ctx, 1, 1, geocache.Entry{LocationName: geocache.UnknownLocation, Granularity: "unknown"}, 4)
	store.Set(ctx, 2, 2, geocache.Entry{LocationName: geocache.UnknownLocation, Granularity: "unknown"}, 4)
	store.Set(ctx, 3, 3, geocache.Entry{LocationName: "France", Granularity: "country"}, 4)

	removed, err := store.ClearUnknown(ctx)
	if err != nil {
		t.Fatalf("ClearUnknown failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := store.Get(ctx, 3, 3, 4); !ok {
		t.Fatal("expected known entry to survive ClearUnknown")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("expected empty cache, got %d", stats.Total)
	}
}

func TestEntriesPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "geocache.db")

	store, err := geocache.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Set(ctx, 44.4280, -110.5885, geocache.Entry{LocationName: "WY-Yellowstone", Granularity: "national_park"}, 4)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := geocache.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	entry, ok := reopened.Get(ctx, 44.4280, -110.5885, 4)
	if !ok || entry.LocationName != "WY-Yellowstone" {
		t.Fatalf("expected persisted entry, got %+v (hit=%v)", entry, ok)
	}
}

func TestStorageFailureIsAMiss(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t, clockwork.NewFakeClock())
	store.Set(ctx, 1, 1, geocache.Entry{LocationName: "France", Granularity: "country"}, 4)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, ok := store.Get(ctx, 1, 1, 4); ok {
		t.Fatal("expected closed store to report a miss")
	}
	// Must not panic or surface an error.
	store.Set(ctx, 2, 2, geocache.Entry{LocationName: "Spain", Granularity: "country"}, 4)
}

func TestNilStoreIsDisabled(t *testing.T) {
	ctx := context.Background()
	var store *geocache.Store

	if store.Enabled() {
		t.Fatal("expected nil store to be disabled")
	}
	store.Set(ctx, 1, 1, geocache.Entry{LocationName: "France"}, 4)
	if _, ok := store.Get(ctx, 1, 1, 4); ok {
		t.Fatal("expected nil store to miss")
	}
	if _, err := store.Stats(ctx); err != nil {
		t.Fatalf("expected nil store stats to succeed, got %v", err)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in        float64
		precision int
		want      float64
	}{
		{37.774929, 4, 37.7749},
		{-122.419416, 4, -122.4194},
		{1.23456, 2, 1.23},
		{1.5, 0, 2},
		{1.5, -3, 2},
	}
	for _, tc := range cases {
		if got := geocache.Round(tc.in, tc.precision); got != tc.want {
			t.Fatalf("Round(%v, %d) = %v, want %v", tc.in, tc.precision, got, tc.want)
		}
	}
}
