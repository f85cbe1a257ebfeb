// Package retrieval implements similarity search over an engram's
// codebook: a ternary inverted index for cheap candidate generation, an
// exact-cosine reranker that works against any VectorStore backend, and
// the out-of-scope PatternCompleter/Factorizer interfaces the external
// resonator would implement.
package retrieval

import (
	"sort"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

// InvertedIndex maps each lane to the chunk ids whose codebook vector is
// +1 there (PosPostings) or -1 there (NegPostings). Built in one pass
// over a codebook; immutable thereafter, matching a single engram's
// immutable-once-serialised lifecycle.
type InvertedIndex struct {
	dim         uint32
	posPostings map[uint32][]engram.ChunkID
	negPostings map[uint32][]engram.ChunkID
}

// BuildInvertedIndex scans every vector in a codebook once, grouping
// chunk ids by the lanes where they hold +1 or -1.
func BuildInvertedIndex(dim uint32, ids []engram.ChunkID, fetch func(engram.ChunkID) (*vsa.SparseVector, error)) (*InvertedIndex, error) {
	idx := &InvertedIndex{
		dim:         dim,
		posPostings: make(map[uint32][]engram.ChunkID),
		negPostings: make(map[uint32][]engram.ChunkID),
	}
	for _, id := range ids {
		v, err := fetch(id)
		if err != nil {
			return nil, err
		}
		for _, lane := range v.PosIndices() {
			idx.posPostings[lane] = append(idx.posPostings[lane], id)
		}
		for _, lane := range v.NegIndices() {
			idx.negPostings[lane] = append(idx.negPostings[lane], id)
		}
	}
	return idx, nil
}

// PosPostings returns the chunk ids with a +1 at the given lane.
func (idx *InvertedIndex) PosPostings(lane uint32) []engram.ChunkID { return idx.posPostings[lane] }

// NegPostings returns the chunk ids with a -1 at the given lane.
func (idx *InvertedIndex) NegPostings(lane uint32) []engram.ChunkID { return idx.negPostings[lane] }

// candidateScore tracks a chunk id's accumulated approximate score
// during candidate generation.
type candidateScore struct {
	id    engram.ChunkID
	score int32
}

// Candidates runs the no-floating-point candidate generation pass for a
// query vector: +1 where query pos meets posting-pos or query neg meets
// posting-neg, -1 for the opposite pairings, keeping the top-k by score
// with ties broken by ascending chunk id.
func (idx *InvertedIndex) Candidates(query *vsa.SparseVector, k int) []engram.ChunkID {
	scores := make(map[engram.ChunkID]int32)
	for _, lane := range query.PosIndices() {
		for _, id := range idx.posPostings[lane] {
			scores[id]++
		}
		for _, id := range idx.negPostings[lane] {
			scores[id]--
		}
	}
	for _, lane := range query.NegIndices() {
		for _, id := range idx.negPostings[lane] {
			scores[id]++
		}
		for _, id := range idx.posPostings[lane] {
			scores[id]--
		}
	}

	ranked := make([]candidateScore, 0, len(scores))
	for id, s := range scores {
		ranked = append(ranked, candidateScore{id: id, score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]engram.ChunkID, len(ranked))
	for i, c := range ranked {
		out[i] = c.id
	}
	return out
}
