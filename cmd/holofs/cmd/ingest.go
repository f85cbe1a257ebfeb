package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amn-labs/holofs/pkg/holofs"
)

var ingestPreset string

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <root-dir> <engram-dir>",
		Short: "Encode a directory tree into a holographic engram",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := presetConfig(ingestPreset)
			if err != nil {
				return err
			}

			stats, err := holofs.Ingest(ctx, args[0], args[1], cfg)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), stats.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&ingestPreset, "preset", "default", "Configuration preset: small, default, or large")
	return cmd
}

func presetConfig(name string) (*holofs.Config, error) {
	switch name {
	case "small":
		return &holofs.Small, nil
	case "default", "":
		return &holofs.Default, nil
	case "large":
		return &holofs.Large, nil
	default:
		return nil, fmt.Errorf("unknown preset %q (want small, default, or large)", name)
	}
}
