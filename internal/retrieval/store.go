package retrieval

import (
	"fmt"
	"sort"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

// VectorStore abstracts "fetch a chunk's vector by id" so rerank works
// identically against an in-memory codebook and a disk-backed store
// (internal/store provides in-memory and bbolt-backed implementations;
// its hnsw-backed store is a CandidateGenerator, not a VectorStore).
type VectorStore interface {
	Get(id engram.ChunkID) (*vsa.SparseVector, error)
}

// CandidateGenerator abstracts "produce an ordered candidate list for a
// query", so rerank can sit in front of either the ternary inverted
// index or an approximate ANN backend.
type CandidateGenerator interface {
	Candidates(query *vsa.SparseVector, k int) []engram.ChunkID
}

// MissingVectorError is returned when rerank's candidate generator names
// a chunk id the VectorStore has no entry for. It is always surfaced,
// never silently dropped from the result set.
type MissingVectorError struct {
	ChunkID engram.ChunkID
}

func (e *MissingVectorError) Error() string {
	return fmt.Sprintf("retrieval: missing vector for chunk id %d during rerank", e.ChunkID)
}

// Scored is one reranked result: a chunk id and its exact cosine
// similarity to the query.
type Scored struct {
	ChunkID engram.ChunkID
	Cosine  float64
}

// Rerank generates candidates via gen, fetches each one's vector from
// store, computes exact cosine against query, and returns the top-k
// sorted descending by cosine with ties broken by ascending chunk id.
func Rerank(gen CandidateGenerator, store VectorStore, query *vsa.SparseVector, k int) ([]Scored, error) {
	candidates := gen.Candidates(query, k)
	results := make([]Scored, 0, len(candidates))
	for _, id := range candidates {
		v, err := store.Get(id)
		if err != nil {
			return nil, &MissingVectorError{ChunkID: id}
		}
		results = append(results, Scored{ChunkID: id, Cosine: query.Cosine(v)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Cosine != results[j].Cosine {
			return results[i].Cosine > results[j].Cosine
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}
