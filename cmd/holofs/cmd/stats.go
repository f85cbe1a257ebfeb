package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amn-labs/holofs/pkg/holofs"
)

var statsPreset string

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <engram-dir>",
		Short: "Print a summary of a holographic engram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := presetConfig(statsPreset)
			if err != nil {
				return err
			}

			h, err := holofs.Open(args[0], cfg)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			out := cmd.OutOrStdout()
			if isTTY() {
				fmt.Fprintf(out, "%s\n%s\n", args[0], h.Stats().String())
			} else {
				fmt.Fprintln(out, h.Stats().String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&statsPreset, "preset", "default", "Configuration preset the engram was ingested with: small, default, or large")
	return cmd
}
