package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"photosort/internal/geocache"
	"photosort/internal/logging"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the geocode cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCacheClearUnknownCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show geocode cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(store *geocache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Path:    %s\n", stats.Path)
				fmt.Fprintf(out, "Entries: %d\n", stats.Total)
				fmt.Fprintf(out, "Recent:  %d (last 30 days)\n", stats.Recent)
				return nil
			})
		},
	}
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached locations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(store *geocache.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Cache is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatFloat(e.Latitude, 'f', -1, 64),
						strconv.FormatFloat(e.Longitude, 'f', -1, 64),
						e.LocationName,
						e.Granularity,
						e.CachedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					fmt.Sprintf("Cached locations (%d)", len(entries)),
					[]string{"Latitude", "Longitude", "Location", "Granularity", "Cached"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(store *geocache.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Geocode cache cleared")
				return nil
			})
		},
	}
}

func newCacheClearUnknownCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-unknown",
		Short: "Remove cached Unknown locations so they are looked up again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(store *geocache.Store) error {
				removed, err := store.ClearUnknown(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d Unknown entries\n", removed)
				return nil
			})
		},
	}
}

func withCache(ctx *commandContext, cmd *cobra.Command, fn func(*geocache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Geocoding.CacheEnabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Geocode cache is disabled (set geocoding.cache_enabled = true in config.toml)")
		return nil
	}
	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return err
	}
	store, err := geocache.Open(cfg.Paths.CachePath, logging.NewComponentLogger(logger, "cli-cache"))
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
