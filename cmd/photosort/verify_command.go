package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"photosort/internal/mover"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "verify FILE1 FILE2",
		Short:       "Compare two files by size and SHA-256",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			same, err := mover.VerifyFiles(args[0], args[1])
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			if !same {
				return errors.New("files differ")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Files match")
			return nil
		},
	}
}
