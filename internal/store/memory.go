package store

import (
	"sync"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

// MemoryStore wraps an engram.Codebook behind the retrieval.VectorStore
// interface. Lookups are zero-copy: the codebook already holds
// *vsa.SparseVector values, so Get just forwards to it.
type MemoryStore struct {
	mu       sync.RWMutex
	codebook *engram.Codebook
}

// NewMemoryStore wraps cb for retrieval. cb is not copied; callers that
// continue mutating it concurrently must do so through a store that
// serialises access, which this wrapper does for its own calls but not
// for direct codebook access made elsewhere.
func NewMemoryStore(cb *engram.Codebook) *MemoryStore {
	return &MemoryStore{codebook: cb}
}

// Get implements retrieval.VectorStore.
func (s *MemoryStore) Get(id engram.ChunkID) (*vsa.SparseVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codebook.Get(id)
}

// Len returns the number of vectors currently in the store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codebook.Len()
}
