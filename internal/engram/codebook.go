// Package engram implements the holographic filesystem layer: the
// codebook of per-chunk vectors, the root bundle, the flat manifest, and
// the hierarchical sub-engram tree variant.
package engram

import (
	"sort"

	"github.com/amn-labs/holofs/internal/vsa"
)

// ChunkID identifies a chunk within a single engram. Ids are assigned
// densely and monotonically by the ingest reducer, never by workers.
type ChunkID = uint32

// MissingVectorError is returned when a chunk id has no entry in the
// codebook it is looked up against.
type MissingVectorError struct {
	ChunkID ChunkID
}

func (e *MissingVectorError) Error() string {
	return "engram: missing vector for chunk id"
}

// Codebook maps chunk id to its encoded vector. It is the authoritative
// per-chunk material; the root vector is a derived retrieval surface.
type Codebook struct {
	dim     uint32
	vectors map[ChunkID]*vsa.SparseVector
}

// NewCodebook returns an empty codebook for vectors of the given
// dimension.
func NewCodebook(dim uint32) *Codebook {
	return &Codebook{dim: dim, vectors: make(map[ChunkID]*vsa.SparseVector)}
}

// Dim returns the codebook's vector dimension.
func (c *Codebook) Dim() uint32 { return c.dim }

// Insert records a chunk's vector, overwriting any existing entry for
// the same id.
func (c *Codebook) Insert(id ChunkID, v *vsa.SparseVector) {
	c.vectors[id] = v
}

// Get implements the retrieval-layer VectorStore contract: a missing
// chunk id is a typed error, never a silent drop.
func (c *Codebook) Get(id ChunkID) (*vsa.SparseVector, error) {
	v, ok := c.vectors[id]
	if !ok {
		return nil, &MissingVectorError{ChunkID: id}
	}
	return v, nil
}

// Len returns the number of chunks in the codebook.
func (c *Codebook) Len() int { return len(c.vectors) }

// IDs returns every chunk id currently in the codebook, unordered.
func (c *Codebook) IDs() []ChunkID {
	ids := make([]ChunkID, 0, len(c.vectors))
	for id := range c.vectors {
		ids = append(ids, id)
	}
	return ids
}

// Root computes the N-ary conflict-cancel bundle over every vector in the
// codebook. BundleHybridMany's pairwise-fold path is order-dependent, so
// vectors are fed in a canonical order (sorted by chunk id) rather than map
// iteration order, making the result reproducible regardless of how chunk
// ids were assigned across parallel workers.
func (c *Codebook) Root() *vsa.SparseVector {
	if len(c.vectors) == 0 {
		return vsa.NewSparseVector(c.dim)
	}
	ids := c.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	vecs := make([]*vsa.SparseVector, 0, len(ids))
	for _, id := range ids {
		vecs = append(vecs, c.vectors[id])
	}
	return vsa.BundleHybridMany(vecs)
}
