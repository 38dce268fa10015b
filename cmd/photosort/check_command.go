package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"photosort/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var network bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run preflight checks against the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Network: network})
			fmt.Fprintln(cmd.OutOrStdout(), renderPreflight(results))
			if failures := preflight.Failures(results); len(failures) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failures))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&network, "network", false, "Also check that geocoding providers are reachable")
	return cmd
}
