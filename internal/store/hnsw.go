package store

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"
	"github.com/google/uuid"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

// HNSWStore implements retrieval.CandidateGenerator over a coder/hnsw
// graph. It is an approximate pre-filter ahead of exact rerank: Search
// results are ordered by cosine distance over the dense {-1,0,+1}
// projection of the ternary vectors, never a substitute for the exact
// cosine computed by internal/retrieval.Rerank on the returned ids.
type HNSWStore struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]
	dim   uint32

	closed bool
}

// hnswMetadata is the on-disk companion to the exported graph file.
type hnswMetadata struct {
	Dim uint32
}

// NewHNSWStore creates an empty candidate index over vectors of the
// given dimension.
func NewHNSWStore(dim uint32) *HNSWStore {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	return &HNSWStore{graph: graph, dim: dim}
}

// Add inserts a chunk's vector into the graph, keyed directly by its
// chunk id. Re-adding an id already present relies on coder/hnsw's own
// update-in-place behaviour; this store does not track deletions.
func (s *HNSWStore) Add(id engram.ChunkID, v *vsa.SparseVector) error {
	if v.Dim() != s.dim {
		return ErrDimensionMismatch{Expected: s.dim, Got: v.Dim()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	node := hnsw.MakeNode(uint64(id), toDense(v))
	s.graph.Add(node)
	return nil
}

// Candidates implements retrieval.CandidateGenerator, returning up to k
// chunk ids ordered by approximate nearest-neighbour distance to query.
// query is projected to dense float32 the same way Add projects stored
// vectors, as SPEC_FULL.md's DOMAIN STACK entry for coder/hnsw describes.
func (s *HNSWStore) Candidates(query *vsa.SparseVector, k int) []engram.ChunkID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed || s.graph.Len() == 0 {
		return nil
	}

	nodes := s.graph.Search(toDense(query), k)
	ids := make([]engram.ChunkID, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, engram.ChunkID(node.Key))
	}
	return ids
}

// Len returns the number of nodes currently in the graph.
func (s *HNSWStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Len()
}

// Save persists the graph to path (via temp file + rename) and its
// dimension to path+".meta".
func (s *HNSWStore) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: creating %s: %w", dir, err)
		}
	}

	tmpPath := path + "." + uuid.NewString() + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", tmpPath, err)
	}
	if err := s.graph.Export(file); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: exporting graph: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: renaming %s: %w", tmpPath, err)
	}

	return s.saveMetadata(path + ".meta")
}

func (s *HNSWStore) saveMetadata(path string) error {
	tmpPath := path + "." + uuid.NewString() + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", tmpPath, err)
	}
	if err := gob.NewEncoder(file).Encode(hnswMetadata{Dim: s.dim}); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: encoding metadata: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: closing %s: %w", tmpPath, err)
	}
	return os.Rename(tmpPath, path)
}

// LoadHNSWStore loads a graph previously written by Save.
func LoadHNSWStore(path string) (*HNSWStore, error) {
	metaFile, err := os.Open(path + ".meta")
	if err != nil {
		return nil, fmt.Errorf("store: opening %s.meta: %w", path, err)
	}
	defer metaFile.Close()

	var meta hnswMetadata
	if err := gob.NewDecoder(metaFile).Decode(&meta); err != nil {
		return nil, fmt.Errorf("store: decoding metadata: %w", err)
	}

	s := NewHNSWStore(meta.Dim)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	defer file.Close()

	// coder/hnsw's Import requires io.ByteReader.
	if err := s.graph.Import(bufio.NewReader(file)); err != nil {
		return nil, fmt.Errorf("store: importing graph: %w", err)
	}

	return s, nil
}

// Close marks the store unusable. coder/hnsw's Graph needs no explicit
// teardown.
func (s *HNSWStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
