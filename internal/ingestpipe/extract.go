package ingestpipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/amn-labs/holofs/internal/config"
	"github.com/amn-labs/holofs/internal/engram"
)

// chunkCacheSize bounds the decoded-chunk LRU used during extract. Sized
// generously relative to a typical worker count so hot chunks referenced
// by several files survive eviction across a single Extract call.
const chunkCacheSize = 4096

// Extract reconstructs every file named in manifest under destDir,
// fanning file-level reconstruction across workers. A shared LRU of
// decoded-and-corrected chunk bytes sits in front of
// engram.Engram.ExtractChunk, so a chunk id referenced by more than one
// manifest entry is decoded once regardless of which worker hits it
// first.
func Extract(ctx context.Context, e *engram.Engram, manifest *engram.Manifest, cfg *config.ReversibleVSAConfig, destDir string) error {
	cache, err := lru.New[engram.ChunkID, []byte](chunkCacheSize)
	if err != nil {
		return fmt.Errorf("ingestpipe: creating chunk cache: %w", err)
	}

	sem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	g, gctx := errgroup.WithContext(ctx)

	for _, entry := range manifest.Files {
		entry := entry
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			data, err := extractFileCached(e, entry, cfg, cache)
			if err != nil {
				return fmt.Errorf("ingestpipe: extracting %s: %w", entry.Path, err)
			}

			dest := filepath.Join(destDir, filepath.FromSlash(entry.Path))
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("ingestpipe: creating directory for %s: %w", entry.Path, err)
			}
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("ingestpipe: writing %s: %w", entry.Path, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func extractFileCached(e *engram.Engram, entry engram.FileEntry, cfg *config.ReversibleVSAConfig, cache *lru.Cache[engram.ChunkID, []byte]) ([]byte, error) {
	out := make([]byte, 0, entry.Size)
	remaining := int(entry.Size)
	for _, id := range entry.Chunks {
		chunkLen := cfg.ChunkSize
		if chunkLen > remaining {
			chunkLen = remaining
		}

		if cached, ok := cache.Get(id); ok {
			out = append(out, cached...)
			remaining -= chunkLen
			continue
		}

		reconstructed, err := e.ExtractChunk(id, cfg.Reversible, entry.Path, chunkLen)
		if err != nil {
			return nil, err
		}
		cache.Add(id, reconstructed)
		out = append(out, reconstructed...)
		remaining -= chunkLen
	}
	return out, nil
}
