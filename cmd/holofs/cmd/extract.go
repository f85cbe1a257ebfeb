package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amn-labs/holofs/pkg/holofs"
)

var extractPreset string

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <engram-dir> <dest-dir>",
		Short: "Reconstruct a directory tree from a holographic engram",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := presetConfig(extractPreset)
			if err != nil {
				return err
			}

			h, err := holofs.Open(args[0], cfg)
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}
			if err := h.Extract(ctx, args[1]); err != nil {
				return fmt.Errorf("extract: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %d files to %s\n", len(h.Manifest.Files), args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&extractPreset, "preset", "default", "Configuration preset the engram was ingested with: small, default, or large")
	return cmd
}
