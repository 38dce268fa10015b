package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"photosort/internal/config"
	"photosort/internal/logging"
	"photosort/internal/organizer"
	"photosort/internal/preflight"
)

// confirmPreviewLimit is how many planned moves are shown before asking.
const confirmPreviewLimit = 10

type organizeFlags struct {
	source        string
	dest          string
	mode          string
	noVerify      bool
	dryRun        bool
	preview       int
	yes           bool
	exclude       []string
	locationIQKey string
	clearCache    bool
	retryUnknown  bool
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Organize media from the source into the destination library",
		Long: "Scan the source tree, read capture dates and GPS, resolve locations, and\n" +
			"move or copy each file to <dest>/YYYY/MM/<Location>/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyOrganizeFlags(cmd, cfg, flags); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			results := preflight.RunAll(runCtx, cfg, preflight.Options{DryRun: flags.dryRun || flags.preview > 0})
			if failures := preflight.Failures(results); len(failures) > 0 {
				fmt.Fprintln(out, renderPreflight(results))
				return fmt.Errorf("preflight failed: %s", failures[0].Detail)
			}

			progress := newProgressReporter(out)
			rt, err := organizer.NewFromConfig(cfg, organizer.BuildOptions{
				DryRun:   flags.dryRun || flags.preview > 0,
				Logger:   logger,
				Progress: progress.Update,
			})
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := maintainCache(runCtx, out, rt, flags); err != nil {
				return err
			}

			if flags.preview > 0 {
				return printPreview(runCtx, out, rt.Organizer, flags.preview)
			}
			if !flags.dryRun && !flags.yes {
				if err := printPreview(runCtx, out, rt.Organizer, confirmPreviewLimit); err != nil {
					return err
				}
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Proceed to %s these files?", cfg.Organize.Mode))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted; no files were changed")
					return nil
				}
			}

			stats, runErr := rt.Organizer.Run(runCtx)
			progress.Finish()
			canceled := errors.Is(runErr, context.Canceled)
			if runErr != nil && !canceled {
				return runErr
			}
			fmt.Fprintln(out, renderSummary(stats, flags.dryRun))
			if canceled {
				fmt.Fprintln(out, "Interrupted; files already processed stay in place and are recorded in the transaction log")
				logger.Warn("organization canceled by signal", logging.String(logging.FieldRunID, stats.RunID))
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "Source directory (overrides paths.source_dir)")
	cmd.Flags().StringVarP(&flags.dest, "dest", "d", "", "Destination library (overrides paths.destination_dir)")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "move or copy (overrides organize.mode)")
	cmd.Flags().BoolVar(&flags.noVerify, "no-verify", false, "Skip content verification after copies")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Plan and log every operation without touching files (no transaction log or duplicates report is written)")
	cmd.Flags().IntVar(&flags.preview, "preview", 0, "Print the first N planned moves and exit")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "Additional exclude pattern (repeatable)")
	cmd.Flags().StringVar(&flags.locationIQKey, "locationiq-key", "", "LocationIQ API key (overrides config and LOCATIONIQ_API_KEY)")
	cmd.Flags().BoolVar(&flags.clearCache, "clear-cache", false, "Clear the geocode cache before organizing")
	cmd.Flags().BoolVar(&flags.retryUnknown, "retry-unknown", false, "Drop cached Unknown locations so they are looked up again")
	return cmd
}

func applyOrganizeFlags(cmd *cobra.Command, cfg *config.Config, flags organizeFlags) error {
	if flags.source != "" {
		path, err := config.ExpandPath(flags.source)
		if err != nil {
			return fmt.Errorf("resolve --source: %w", err)
		}
		cfg.Paths.SourceDir = path
	}
	if flags.dest != "" {
		path, err := config.ExpandPath(flags.dest)
		if err != nil {
			return fmt.Errorf("resolve --dest: %w", err)
		}
		cfg.Paths.DestinationDir = path
	}
	if flags.mode != "" {
		cfg.Organize.Mode = strings.ToLower(strings.TrimSpace(flags.mode))
	}
	if flags.noVerify {
		cfg.Organize.Verify = false
	}
	if len(flags.exclude) > 0 {
		cfg.Organize.ExcludePatterns = append(cfg.Organize.ExcludePatterns, flags.exclude...)
	}
	if cmd.Flags().Changed("locationiq-key") {
		cfg.Geocoding.LocationIQAPIKey = strings.TrimSpace(flags.locationIQKey)
	}
	if flags.preview < 0 {
		return errors.New("--preview must be positive")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.ValidateRun()
}

func maintainCache(ctx context.Context, out io.Writer, rt *organizer.Runtime, flags organizeFlags) error {
	if rt.Cache == nil {
		if flags.clearCache || flags.retryUnknown {
			fmt.Fprintln(out, "Geocode cache is disabled; nothing to clear")
		}
		return nil
	}
	if flags.clearCache {
		if err := rt.Cache.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Cleared geocode cache")
		return nil
	}
	if flags.retryUnknown {
		removed, err := rt.Cache.ClearUnknown(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d Unknown cache entries\n", removed)
	}
	return nil
}

func printPreview(ctx context.Context, out io.Writer, org *organizer.Organizer, limit int) error {
	items, total, err := org.Preview(ctx, limit)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintln(out, "No media files found")
		return nil
	}
	fmt.Fprintln(out, renderPreview(items, total))
	return nil
}

// confirm reads a yes/no answer. Anything but y or yes declines.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
