package ingestpipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/amn-labs/holofs/internal/atomicfile"
	"github.com/amn-labs/holofs/internal/config"
	"github.com/amn-labs/holofs/internal/correction"
	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

// encodedFile is one file's worker-computed, not-yet-reduced ingest
// result: the vectors and corrections line up index-for-index with the
// chunks EncodeFile split the file into.
type encodedFile struct {
	path        string
	isText      bool
	size        uint64
	chunks      [][]byte
	vectors     []*vsa.SparseVector
	corrections []correction.Correction
}

// Ingest walks root, encodes every discovered file concurrently, and
// reduces the results into a single flat engram. Workers are bounded by
// runtime.GOMAXPROCS(0); per spec, chunk-id allocation happens only in
// the reducer, in file-then-within-file order, so ids are deterministic
// regardless of how encoding was scheduled.
func Ingest(ctx context.Context, root string, cfg *config.ReversibleVSAConfig) (*engram.Engram, *engram.Manifest, error) {
	paths, err := Discover(root)
	if err != nil {
		return nil, nil, fmt.Errorf("ingestpipe: discovering files under %s: %w", root, err)
	}

	results := make([]*encodedFile, len(paths))
	sem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	g, gctx := errgroup.WithContext(ctx)

	for i, rel := range paths {
		i, rel := i, rel
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			encoded, err := encodeFile(root, rel, cfg)
			if err != nil {
				return fmt.Errorf("ingestpipe: encoding %s: %w", rel, err)
			}
			results[i] = encoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	e := engram.New(cfg.Dim)
	manifest := engram.NewManifest()
	for _, r := range results {
		entry := e.AddFile(r.path, r.isText, r.size, r.chunks, r.vectors, r.corrections)
		manifest.AddFile(entry)
	}

	return e, manifest, nil
}

func encodeFile(root, rel string, cfg *config.ReversibleVSAConfig) (*encodedFile, error) {
	abs := filepath.Join(root, rel)
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	chunks := engram.ChunkBytes(data, cfg.ChunkSize)
	vectors := engram.EncodeFile(data, cfg.Reversible, rel, cfg.ChunkSize, cfg.Dim)
	corrections := make([]correction.Correction, len(chunks))
	for i, chunk := range chunks {
		corrections[i] = engram.BuildCorrection(chunk, vectors[i], cfg.Reversible, rel, cfg.Dim)
	}

	return &encodedFile{
		path:        filepath.ToSlash(rel),
		isText:      isText(data),
		size:        uint64(len(data)),
		chunks:      chunks,
		vectors:     vectors,
		corrections: corrections,
	}, nil
}

// WriteEngram persists a flat engram's manifest under dir, acquiring an
// EngramLock for the duration so two ingests never interleave writes.
// Codebook and correction-store persistence are the caller's concern
// (internal/store, internal/correction); this only sequences the
// manifest write behind the directory lock.
func WriteEngram(dir string, manifest *engram.Manifest, marshal func(*engram.Manifest) ([]byte, error)) error {
	lock := atomicfile.NewEngramLock(dir)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("ingestpipe: locking %s: %w", dir, err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := marshal(manifest)
	if err != nil {
		return fmt.Errorf("ingestpipe: marshalling manifest: %w", err)
	}

	manifestPath := filepath.Join(dir, "manifest.json")
	if err := atomicfile.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("ingestpipe: writing manifest: %w", err)
	}
	return nil
}
