package vsa

import "github.com/amn-labs/holofs/internal/trit"

// MinBitslicedDim is the dimension below which per-lane index overhead
// dominates regardless of density: vectors this small always stay sparse.
const MinBitslicedDim = 256

// MinBlockSparseDim is the dimension at or above which block-sparse
// becomes worth its block-granularity bookkeeping, provided density also
// qualifies.
const MinBlockSparseDim = 100_000

// BlockSparseDensityThreshold is the density below which a large vector
// (dim >= MinBlockSparseDim) prefers block-sparse over bitsliced.
const BlockSparseDensityThreshold = 0.01

// SparseDensityThreshold is the density below which a vector prefers
// sparse over bitsliced, once it is past MinBitslicedDim.
const SparseDensityThreshold = 0.005

// Representation identifies which concrete encoding a HybridVector is
// currently holding.
type Representation int

const (
	RepSparse Representation = iota
	RepBitsliced
	RepBlockSparse
)

func (r Representation) String() string {
	switch r {
	case RepSparse:
		return "sparse"
	case RepBitsliced:
		return "bitsliced"
	case RepBlockSparse:
		return "block-sparse"
	default:
		return "unknown"
	}
}

// ChooseRepresentation picks the representation a vector of the given
// dimension and non-zero count should use:
//   - dim < MinBitslicedDim: always sparse.
//   - dim >= MinBlockSparseDim and density < BlockSparseDensityThreshold:
//     block-sparse.
//   - density < SparseDensityThreshold: sparse.
//   - otherwise: bitsliced.
func ChooseRepresentation(dim uint32, nnz int) Representation {
	if dim < MinBitslicedDim {
		return RepSparse
	}
	density := float64(nnz) / float64(dim)
	if dim >= MinBlockSparseDim && density < BlockSparseDensityThreshold {
		return RepBlockSparse
	}
	if density < SparseDensityThreshold {
		return RepSparse
	}
	return RepBitsliced
}

// HybridVector wraps exactly one of SparseVector, BitslicedVector, or
// BlockSparseVector and dispatches every operation to it, promoting
// representation as needed so callers never have to branch on which
// concrete type backs a value.
type HybridVector struct {
	rep         Representation
	sparse      *SparseVector
	bitslice    *BitslicedVector
	blockSparse *BlockSparseVector
}

// NewHybridFromSparse wraps a SparseVector, promoting immediately if its
// dimension/density calls for it.
func NewHybridFromSparse(v *SparseVector) *HybridVector {
	return newHybrid(v.dim, v.NNZ(), v, nil, nil)
}

// NewHybridFromBitsliced wraps a BitslicedVector, demoting immediately if
// its dimension/density calls for it.
func NewHybridFromBitsliced(v *BitslicedVector) *HybridVector {
	return newHybrid(v.dim, v.NNZ(), nil, v, nil)
}

// NewHybridFromBlockSparse wraps a BlockSparseVector, converting
// immediately if its dimension/density calls for a different
// representation.
func NewHybridFromBlockSparse(v *BlockSparseVector) *HybridVector {
	return newHybrid(v.dim, v.NNZ(), nil, nil, v)
}

// newHybrid materialises whichever of sparse/bitslice/blockSparse (exactly
// one non-nil) ChooseRepresentation calls for, converting if necessary.
func newHybrid(dim uint32, nnz int, sparse *SparseVector, bitslice *BitslicedVector, blockSparse *BlockSparseVector) *HybridVector {
	switch ChooseRepresentation(dim, nnz) {
	case RepSparse:
		if sparse != nil {
			return &HybridVector{rep: RepSparse, sparse: sparse}
		}
		if bitslice != nil {
			return &HybridVector{rep: RepSparse, sparse: bitslice.ToSparse()}
		}
		return &HybridVector{rep: RepSparse, sparse: blockSparse.ToSparse()}
	case RepBlockSparse:
		if blockSparse != nil {
			return &HybridVector{rep: RepBlockSparse, blockSparse: blockSparse}
		}
		if sparse != nil {
			return &HybridVector{rep: RepBlockSparse, blockSparse: sparse.ToBlockSparse()}
		}
		return &HybridVector{rep: RepBlockSparse, blockSparse: bitslice.ToSparse().ToBlockSparse()}
	default:
		if bitslice != nil {
			return &HybridVector{rep: RepBitsliced, bitslice: bitslice}
		}
		if sparse != nil {
			return &HybridVector{rep: RepBitsliced, bitslice: sparse.ToBitsliced()}
		}
		return &HybridVector{rep: RepBitsliced, bitslice: blockSparse.ToSparse().ToBitsliced()}
	}
}

// Representation reports which concrete encoding is currently active.
func (h *HybridVector) Representation() Representation { return h.rep }

// Dim returns the vector's logical dimension.
func (h *HybridVector) Dim() uint32 {
	switch h.rep {
	case RepSparse:
		return h.sparse.dim
	case RepBlockSparse:
		return h.blockSparse.dim
	default:
		return h.bitslice.dim
	}
}

// NNZ returns the number of non-zero lanes.
func (h *HybridVector) NNZ() int {
	switch h.rep {
	case RepSparse:
		return h.sparse.NNZ()
	case RepBlockSparse:
		return h.blockSparse.NNZ()
	default:
		return h.bitslice.NNZ()
	}
}

// At returns the trit value at a given lane.
func (h *HybridVector) At(lane uint32) trit.Trit {
	switch h.rep {
	case RepSparse:
		return h.sparse.At(lane)
	case RepBlockSparse:
		return h.blockSparse.At(lane)
	default:
		return h.bitslice.At(lane)
	}
}

// AsSparse returns the sparse form, converting if necessary. The returned
// value is independent of h's internal state.
func (h *HybridVector) AsSparse() *SparseVector {
	switch h.rep {
	case RepSparse:
		return h.sparse.Clone()
	case RepBlockSparse:
		return h.blockSparse.ToSparse()
	default:
		return h.bitslice.ToSparse()
	}
}

// AsBitsliced returns the bitsliced form, converting if necessary.
func (h *HybridVector) AsBitsliced() *BitslicedVector {
	switch h.rep {
	case RepBitsliced:
		return h.bitslice.Clone()
	case RepBlockSparse:
		return h.blockSparse.ToSparse().ToBitsliced()
	default:
		return h.sparse.ToBitsliced()
	}
}

// AsBlockSparse returns the block-sparse form, converting if necessary.
func (h *HybridVector) AsBlockSparse() *BlockSparseVector {
	switch h.rep {
	case RepBlockSparse:
		return h.blockSparse
	case RepSparse:
		return h.sparse.ToBlockSparse()
	default:
		return h.bitslice.ToSparse().ToBlockSparse()
	}
}

// reconcile returns the representation both operands should be promoted
// to before a binary op: if either operand is block-sparse and the result
// would stay at block-sparse scale, promote to block-sparse; else promote
// to bitsliced if either operand is bitsliced; otherwise both are sparse
// and stay sparse.
func reconcile(a, b *HybridVector) Representation {
	if (a.rep == RepBlockSparse || b.rep == RepBlockSparse) && max(a.Dim(), b.Dim()) >= MinBlockSparseDim {
		return RepBlockSparse
	}
	if a.rep == RepBitsliced || b.rep == RepBitsliced {
		return RepBitsliced
	}
	if a.rep == RepBlockSparse || b.rep == RepBlockSparse {
		return RepBitsliced
	}
	return RepSparse
}

// Bundle combines two hybrid vectors, re-evaluating the result's preferred
// representation afterward (bundling can change density enough to cross
// a threshold).
func (h *HybridVector) Bundle(o *HybridVector) *HybridVector {
	switch reconcile(h, o) {
	case RepBlockSparse:
		return NewHybridFromBlockSparse(h.AsBlockSparse().Bundle(o.AsBlockSparse()))
	case RepBitsliced:
		return NewHybridFromBitsliced(h.AsBitsliced().Bundle(o.AsBitsliced()))
	default:
		return NewHybridFromSparse(h.sparse.Bundle(o.sparse))
	}
}

// Bind combines two hybrid vectors under element-wise multiplication,
// re-evaluating representation afterward.
func (h *HybridVector) Bind(o *HybridVector) *HybridVector {
	switch reconcile(h, o) {
	case RepBlockSparse:
		return NewHybridFromBlockSparse(h.AsBlockSparse().Bind(o.AsBlockSparse()))
	case RepBitsliced:
		return NewHybridFromBitsliced(h.AsBitsliced().Bind(o.AsBitsliced()))
	default:
		return NewHybridFromSparse(h.sparse.Bind(o.sparse))
	}
}

// Cosine returns the normalised ternary dot product, computed in
// whichever representation both operands already share, or their
// reconciled representation if mixed.
func (h *HybridVector) Cosine(o *HybridVector) float64 {
	switch reconcile(h, o) {
	case RepBlockSparse:
		return h.AsBlockSparse().Cosine(o.AsBlockSparse())
	case RepBitsliced:
		return h.AsBitsliced().Cosine(o.AsBitsliced())
	default:
		return h.sparse.Cosine(o.sparse)
	}
}

// Permute applies the cyclic shift in whichever representation is active.
func (h *HybridVector) Permute(shift uint32) *HybridVector {
	switch h.rep {
	case RepBitsliced:
		return NewHybridFromBitsliced(h.bitslice.Permute(shift))
	case RepBlockSparse:
		return NewHybridFromSparse(h.blockSparse.ToSparse().Permute(shift))
	default:
		return NewHybridFromSparse(h.sparse.Permute(shift))
	}
}

// InversePermute undoes Permute(shift).
func (h *HybridVector) InversePermute(shift uint32) *HybridVector {
	switch h.rep {
	case RepBitsliced:
		return NewHybridFromBitsliced(h.bitslice.InversePermute(shift))
	case RepBlockSparse:
		return NewHybridFromSparse(h.blockSparse.ToSparse().InversePermute(shift))
	default:
		return NewHybridFromSparse(h.sparse.InversePermute(shift))
	}
}
