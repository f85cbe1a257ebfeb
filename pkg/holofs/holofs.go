// Package holofs is the public façade over the holographic filesystem
// engine: ingest a directory tree into an engram, extract it back out
// byte-for-byte, and query it by content similarity. cmd/holofs is a
// thin cobra wrapper over exactly the functions in this package — it
// never touches internal/* directly.
package holofs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amn-labs/holofs/internal/atomicfile"
	"github.com/amn-labs/holofs/internal/config"
	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/ingestpipe"
	"github.com/amn-labs/holofs/internal/retrieval"
	"github.com/amn-labs/holofs/internal/reversible"
)

const (
	manifestFile    = "manifest.json"
	codebookFile    = "codebook.bin"
	correctionsFile = "corrections.bin"
)

// Config is the materialised pipeline configuration callers build an
// engram with. Re-exported so library consumers never import
// internal/config directly.
type Config = config.ReversibleVSAConfig

// Small, Default, and Large are the three materialised configuration
// presets, re-exported from internal/config.
var (
	Small   = config.Small
	Default = config.Default
	Large   = config.Large
)

// Ingest walks root, encodes every discovered file into a new engram
// under cfg, and writes its three artifacts (manifest, codebook,
// corrections) into engramDir under an exclusive lock. Returns summary
// Stats for the freshly written engram.
func Ingest(ctx context.Context, root, engramDir string, cfg *Config) (*Stats, error) {
	e, manifest, err := ingestpipe.Ingest(ctx, root, cfg)
	if err != nil {
		return nil, fmt.Errorf("holofs: ingesting %s: %w", root, err)
	}
	if err := writeEngram(engramDir, e, manifest); err != nil {
		return nil, err
	}
	return statsOf(e, manifest), nil
}

// writeEngram persists manifest/codebook/corrections together under a
// single EngramLock, so a reader never observes one artifact updated
// without the other two.
func writeEngram(dir string, e *engram.Engram, manifest *engram.Manifest) error {
	lock := atomicfile.NewEngramLock(dir)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("holofs: locking %s: %w", dir, err)
	}
	defer func() { _ = lock.Unlock() }()

	codebookData, correctionsData, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("holofs: marshalling engram: %w", err)
	}
	manifestData, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("holofs: marshalling manifest: %w", err)
	}

	writes := []struct {
		name string
		data []byte
	}{
		{manifestFile, manifestData},
		{codebookFile, codebookData},
		{correctionsFile, correctionsData},
	}
	for _, w := range writes {
		if err := atomicfile.WriteFile(filepath.Join(dir, w.name), w.data, 0o644); err != nil {
			return fmt.Errorf("holofs: writing %s: %w", w.name, err)
		}
	}
	return nil
}

// Handle is an opened engram: its codebook, corrections, manifest, and
// the configuration it was built with, ready for Extract and Query.
type Handle struct {
	Dir      string
	Engram   *engram.Engram
	Manifest *engram.Manifest
	Cfg      *Config

	index *retrieval.InvertedIndex
}

// Open loads an engram's three artifacts from dir. cfg must describe
// the same dimension and reversible parameters the engram was ingested
// with; Open does not infer them.
func Open(dir string, cfg *Config) (*Handle, error) {
	manifestData, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("holofs: reading manifest: %w", err)
	}
	codebookData, err := os.ReadFile(filepath.Join(dir, codebookFile))
	if err != nil {
		return nil, fmt.Errorf("holofs: reading codebook: %w", err)
	}
	correctionsData, err := os.ReadFile(filepath.Join(dir, correctionsFile))
	if err != nil {
		return nil, fmt.Errorf("holofs: reading corrections: %w", err)
	}

	e, err := engram.Unmarshal(codebookData, correctionsData)
	if err != nil {
		return nil, fmt.Errorf("holofs: unmarshalling engram: %w", err)
	}

	var manifest engram.Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, fmt.Errorf("holofs: unmarshalling manifest: %w", err)
	}

	return &Handle{Dir: dir, Engram: e, Manifest: &manifest, Cfg: cfg}, nil
}

// Extract reconstructs every file named in the manifest under destDir.
func (h *Handle) Extract(ctx context.Context, destDir string) error {
	return ingestpipe.Extract(ctx, h.Engram, h.Manifest, h.Cfg, destDir)
}

// Stats summarises the opened engram.
func (h *Handle) Stats() *Stats {
	return statsOf(h.Engram, h.Manifest)
}

// Query encodes text exactly the way a chunk at path would be encoded
// during ingest — path-keyed shifts mean the same bytes encode to a
// different vector under a different path, so a query is always scoped
// to the path it is checking content against (e.g. "does the file at
// this path still look like this snippet"), not a path-agnostic
// semantic search. Candidates come from a ternary inverted index built
// lazily over the full codebook; the returned list is the top-k exact
// cosine matches.
func (h *Handle) Query(path, text string, k int) ([]retrieval.Scored, error) {
	idx, err := h.invertedIndex()
	if err != nil {
		return nil, err
	}
	queryVec := reversible.EncodeChunk([]byte(text), h.Cfg.Reversible, path, h.Cfg.Dim)
	return retrieval.Rerank(idx, h.Engram.Codebook, queryVec, k)
}

func (h *Handle) invertedIndex() (*retrieval.InvertedIndex, error) {
	if h.index != nil {
		return h.index, nil
	}
	idx, err := retrieval.BuildInvertedIndex(h.Cfg.Dim, h.Engram.Codebook.IDs(), h.Engram.Codebook.Get)
	if err != nil {
		return nil, fmt.Errorf("holofs: building inverted index: %w", err)
	}
	h.index = idx
	return idx, nil
}
