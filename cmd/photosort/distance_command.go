package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"photosort/internal/location"
)

func newDistanceCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "distance LAT1 LON1 LAT2 LON2",
		Short: "Great-circle distance between two coordinates in miles",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]float64, 4)
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q: %w", arg, err)
				}
				coords[i] = v
			}
			if !cmd.Flags().Changed("threshold") {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				threshold = cfg.Location.ClusteringDistanceMiles
			}
			p1 := location.Point{Lat: coords[0], Lon: coords[1]}
			p2 := location.Point{Lat: coords[2], Lon: coords[3]}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Distance: %.2f miles\n", location.DistanceMiles(p1, p2))
			fmt.Fprintf(out, "Within %.1f miles: %s\n", threshold, yesNo(location.ShouldCluster(p1, p2, threshold)))
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Clustering threshold in miles (defaults to location.clustering_distance_miles)")
	return cmd
}
