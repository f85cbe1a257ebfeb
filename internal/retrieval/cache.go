package retrieval

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

// CachedVectorStore wraps a VectorStore with a bounded LRU of recently
// fetched vectors, so repeated rerank passes over the same hot chunk ids
// (a resonant query re-run, a paginated result set) skip the underlying
// store's lookup cost.
type CachedVectorStore struct {
	store VectorStore
	cache *lru.Cache[engram.ChunkID, *vsa.SparseVector]
}

// NewCachedVectorStore wraps store with an LRU of the given capacity.
func NewCachedVectorStore(store VectorStore, size int) (*CachedVectorStore, error) {
	cache, err := lru.New[engram.ChunkID, *vsa.SparseVector](size)
	if err != nil {
		return nil, err
	}
	return &CachedVectorStore{store: store, cache: cache}, nil
}

// Get implements VectorStore, consulting the cache before the wrapped store.
func (c *CachedVectorStore) Get(id engram.ChunkID) (*vsa.SparseVector, error) {
	if v, ok := c.cache.Get(id); ok {
		return v, nil
	}
	v, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, v)
	return v, nil
}
