// Package store provides retrieval.VectorStore backends for an engram's
// codebook: an in-memory wrapper, a bbolt-backed disk store for engrams
// too large to hold resident, and an approximate coder/hnsw candidate
// source used ahead of exact rerank.
package store

import (
	"fmt"

	"github.com/amn-labs/holofs/internal/vsa"
)

// ErrDimensionMismatch indicates a vector was presented at a dimension
// different from the one the store was opened with.
type ErrDimensionMismatch struct {
	Expected uint32
	Got      uint32
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("store: dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// ErrClosed is returned by any operation on a store that has been closed.
var ErrClosed = fmt.Errorf("store: closed")

// toDense renders a ternary SparseVector as a dense float32 vector,
// {-1, 0, +1} per lane, suitable as input to a float32-space ANN index.
func toDense(v *vsa.SparseVector) []float32 {
	dense := make([]float32, v.Dim())
	for _, idx := range v.PosIndices() {
		dense[idx] = 1
	}
	for _, idx := range v.NegIndices() {
		dense[idx] = -1
	}
	return dense
}

// fromDense rebuilds a SparseVector from a dense float32 vector produced
// by toDense, treating any strictly-positive lane as +1 and
// strictly-negative as -1. Values are not assumed to still be exactly
// ±1 after an ANN library's internal normalisation, so the sign alone is
// read back.
func fromDense(dim uint32, dense []float32) *vsa.SparseVector {
	var pos, neg []uint32
	for i, val := range dense {
		switch {
		case val > 0:
			pos = append(pos, uint32(i))
		case val < 0:
			neg = append(neg, uint32(i))
		}
	}
	return vsa.NewSparseVectorFromIndices(dim, pos, neg)
}
