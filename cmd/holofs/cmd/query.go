package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amn-labs/holofs/pkg/holofs"
)

var (
	queryPreset string
	queryTopK   int
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <engram-dir> <path> <text>",
		Short: "Find the chunks at path that most resemble text",
		Long:  `Encodes text exactly as it would have been encoded at path during ingest, then returns the top-k closest chunks by exact cosine similarity. Because holofs derives its encoding shift from path, this is a check of "does the content at this path still resemble text", not a path-agnostic semantic search.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := presetConfig(queryPreset)
			if err != nil {
				return err
			}

			h, err := holofs.Open(args[0], cfg)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			results, err := h.Query(args[1], args[2], queryTopK)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "chunk=%d cosine=%.6f\n", r.ChunkID, r.Cosine)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&queryPreset, "preset", "default", "Configuration preset the engram was ingested with: small, default, or large")
	cmd.Flags().IntVar(&queryTopK, "top", 5, "Number of closest chunks to return")
	return cmd
}
