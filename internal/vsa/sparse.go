// Package vsa implements the ternary vector kernel: sparse, bitsliced,
// block-sparse, and soft-ternary representations of D-dimensional
// balanced-ternary vectors, bundle/bind/permute/cosine under each, and the
// hybrid dispatcher that picks a representation by dimension and density.
package vsa

import (
	"crypto/sha256"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/amn-labs/holofs/internal/trit"
)

// DefaultDimension is the default ambient dimension for sparse vectors.
const DefaultDimension = 10_000

// SparseVector is a D-dimensional balanced-ternary vector stored as two
// sorted, disjoint index sets (backed by roaring bitmaps): pos for +1 lanes
// and neg for -1 lanes. All public operations return new values; operands
// are never mutated.
type SparseVector struct {
	dim uint32
	pos *roaring.Bitmap
	neg *roaring.Bitmap
}

// NewSparseVector returns the zero vector of the given dimension.
func NewSparseVector(dim uint32) *SparseVector {
	return &SparseVector{dim: dim, pos: roaring.New(), neg: roaring.New()}
}

// NewSparseVectorFromIndices builds a vector from explicit pos/neg index
// lists. The caller is responsible for pos/neg being disjoint; violating
// that is a contract violation per the sparse-vector invariants.
func NewSparseVectorFromIndices(dim uint32, pos, neg []uint32) *SparseVector {
	return &SparseVector{dim: dim, pos: roaring.BitmapOf(pos...), neg: roaring.BitmapOf(neg...)}
}

// Dim returns the vector's logical dimension.
func (v *SparseVector) Dim() uint32 { return v.dim }

// NNZ returns the number of non-zero lanes (the L0 support count).
func (v *SparseVector) NNZ() int {
	return int(v.pos.GetCardinality() + v.neg.GetCardinality())
}

// IsEmpty reports whether the vector has no non-zero lanes.
func (v *SparseVector) IsEmpty() bool { return v.NNZ() == 0 }

// PosIndices returns the sorted positive-lane indices.
func (v *SparseVector) PosIndices() []uint32 { return v.pos.ToArray() }

// NegIndices returns the sorted negative-lane indices.
func (v *SparseVector) NegIndices() []uint32 { return v.neg.ToArray() }

// At returns the trit value at a given lane.
func (v *SparseVector) At(lane uint32) trit.Trit {
	switch {
	case v.pos.Contains(lane):
		return trit.P
	case v.neg.Contains(lane):
		return trit.N
	default:
		return trit.Z
	}
}

// Clone returns a deep, independent copy.
func (v *SparseVector) Clone() *SparseVector {
	return &SparseVector{dim: v.dim, pos: v.pos.Clone(), neg: v.neg.Clone()}
}

// checkDim panics on a dimension mismatch; callers at the package boundary
// (internal/engram, internal/retrieval) convert this into a typed
// DimensionMismatch error before it reaches a caller outside this package.
func (v *SparseVector) checkDim(o *SparseVector) {
	if v.dim != o.dim {
		panic(fmt.Sprintf("vsa: dimension mismatch: %d vs %d", v.dim, o.dim))
	}
}

// Bundle is the pairwise conflict-cancel superposition (A ⊕ B): same sign
// keeps, opposite signs cancel to zero, sign-against-zero keeps the sign.
// Commutative, but NOT associative across three or more operands — use
// BundleSumMany or BundleHybridMany for N-ary bundling.
func (v *SparseVector) Bundle(o *SparseVector) *SparseVector {
	v.checkDim(o)
	posOut := roaring.Or(roaring.AndNot(v.pos, o.neg), roaring.AndNot(o.pos, v.neg))
	negOut := roaring.Or(roaring.AndNot(v.neg, o.pos), roaring.AndNot(o.neg, v.pos))
	return &SparseVector{dim: v.dim, pos: posOut, neg: negOut}
}

// Bind is element-wise trit multiplication (A ⊙ B): commutative, and
// self-inverse on non-zero lanes (v.Bind(v) has all-positive support equal
// to v's support).
func (v *SparseVector) Bind(o *SparseVector) *SparseVector {
	v.checkDim(o)
	posOut := roaring.Or(roaring.And(v.pos, o.pos), roaring.And(v.neg, o.neg))
	negOut := roaring.Or(roaring.And(v.pos, o.neg), roaring.And(v.neg, o.pos))
	return &SparseVector{dim: v.dim, pos: posOut, neg: negOut}
}

// Cosine returns the normalised ternary dot product in [-1, 1]. Returns 0
// when either operand is empty.
func (v *SparseVector) Cosine(o *SparseVector) float64 {
	v.checkDim(o)
	if v.IsEmpty() || o.IsEmpty() {
		return 0
	}
	dot := int64(v.pos.AndCardinality(o.pos)) +
		int64(v.neg.AndCardinality(o.neg)) -
		int64(v.pos.AndCardinality(o.neg)) -
		int64(v.neg.AndCardinality(o.pos))
	normA := float64(v.NNZ())
	normB := float64(o.NNZ())
	return float64(dot) / (sqrt(normA) * sqrt(normB))
}

// Permute applies the cyclic shift π_k(v)_i = v_{(i-k) mod D}, implemented
// by remapping every stored index forward by k and re-sorting.
func (v *SparseVector) Permute(shift uint32) *SparseVector {
	d := v.dim
	shift %= d
	remap := func(b *roaring.Bitmap) *roaring.Bitmap {
		out := roaring.New()
		it := b.Iterator()
		for it.HasNext() {
			idx := it.Next()
			out.Add((idx + shift) % d)
		}
		return out
	}
	return &SparseVector{dim: d, pos: remap(v.pos), neg: remap(v.neg)}
}

// InversePermute undoes Permute(shift): v.Permute(k).InversePermute(k) == v.
func (v *SparseVector) InversePermute(shift uint32) *SparseVector {
	d := v.dim
	shift %= d
	return v.Permute((d - shift) % d)
}

// Thin deterministically subsamples pos/neg (preserving their ratio) down
// to at most target non-zero lanes. The RNG seed is derived only from
// (|pos|, |neg|, target) so thinning the same shape always yields the same
// selection, independent of lane contents.
func (v *SparseVector) Thin(target int) *SparseVector {
	nnz := v.NNZ()
	if nnz <= target {
		return v.Clone()
	}
	posLen := int(v.pos.GetCardinality())
	negLen := int(v.neg.GetCardinality())
	seed := thinSeed(posLen, negLen, target)
	rng := rand.New(rand.NewSource(seed))

	targetPos := 0
	if nnz > 0 {
		targetPos = target * posLen / nnz
	}
	targetNeg := target - targetPos
	if targetNeg > negLen {
		targetNeg = negLen
		targetPos = target - targetNeg
	}
	if targetPos > posLen {
		targetPos = posLen
	}

	posKept := sampleN(rng, v.pos.ToArray(), targetPos)
	negKept := sampleN(rng, v.neg.ToArray(), targetNeg)
	return &SparseVector{dim: v.dim, pos: roaring.BitmapOf(posKept...), neg: roaring.BitmapOf(negKept...)}
}

func thinSeed(posLen, negLen, target int) int64 {
	h := sha256.Sum256([]byte(fmt.Sprintf("thin:%d:%d:%d", posLen, negLen, target)))
	var seed int64
	for i := 0; i < 8; i++ {
		seed = seed<<8 | int64(h[i])
	}
	if seed < 0 {
		seed = -seed
	}
	return seed
}

// sampleN deterministically (given rng) picks k elements out of values,
// returned in ascending order.
func sampleN(rng *rand.Rand, values []uint32, k int) []uint32 {
	if k >= len(values) {
		out := append([]uint32(nil), values...)
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	}
	if k <= 0 {
		return nil
	}
	perm := rng.Perm(len(values))[:k]
	out := make([]uint32, k)
	for i, p := range perm {
		out[i] = values[p]
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

// nAryBundlePoissonThreshold is the expected-nnz-per-lane value at or above
// which BundleHybridMany switches from pairwise conflict-cancel folding to
// sum-then-threshold accumulation. Below it the cheaper pairwise fold is
// used; for three or more operands that fold depends on operand order and
// can differ from the summed form on lanes where operands of opposite sign
// collide.
const nAryBundlePoissonThreshold = 32

// BundleSumMany bundles N sparse vectors by summing each lane's signed
// contributions and thresholding: sign(sum) with ties (sum==0) resolved to
// Z. This is the correct N-ary generalisation of Bundle (which is only
// well-defined pairwise); unlike folding Bundle left-to-right, the result
// does not depend on operand order.
func BundleSumMany(vecs []*SparseVector) *SparseVector {
	if len(vecs) == 0 {
		return nil
	}
	dim := vecs[0].dim
	sums := make(map[uint32]int32, vecs[0].NNZ())
	for _, v := range vecs {
		if v.dim != dim {
			panic(fmt.Sprintf("vsa: dimension mismatch: %d vs %d", dim, v.dim))
		}
		it := v.pos.Iterator()
		for it.HasNext() {
			sums[it.Next()]++
		}
		it = v.neg.Iterator()
		for it.HasNext() {
			sums[it.Next()]--
		}
	}
	pos := roaring.New()
	neg := roaring.New()
	for lane, s := range sums {
		switch {
		case s > 0:
			pos.Add(lane)
		case s < 0:
			neg.Add(lane)
		}
	}
	return &SparseVector{dim: dim, pos: pos, neg: neg}
}

// BundleHybridMany bundles N sparse vectors, picking one of two strategies
// by expected per-lane occupancy λ = ΣNNZ/D: below the threshold it folds
// pairwise Bundle left-to-right (cheap when collisions are rare), at or
// above it falls back to BundleSumMany's dense per-lane accumulation. For
// two operands both give the same result. For three or more, the pairwise
// fold depends on operand order and can differ from BundleSumMany on lanes
// where operands of opposite sign collide.
func BundleHybridMany(vecs []*SparseVector) *SparseVector {
	if len(vecs) == 0 {
		return nil
	}
	if len(vecs) == 1 {
		return vecs[0].Clone()
	}
	var totalNNZ int
	for _, v := range vecs {
		totalNNZ += v.NNZ()
	}
	dim := vecs[0].dim
	lambda := float64(totalNNZ) / float64(dim)
	if lambda < nAryBundlePoissonThreshold {
		acc := vecs[0].Clone()
		for _, v := range vecs[1:] {
			acc = acc.Bundle(v)
		}
		return acc
	}
	return BundleSumMany(vecs)
}

// FromBytesSeed derives a random-looking sparse vector from arbitrary bytes
// via a SHA-256-seeded Fisher-Yates-style shuffle. This mirrors the Rust
// from_data legacy generator: a similarity-only construction, never wired
// into the reversible encode/decode contract (internal/reversible owns
// reconstruction). Its only use is producing comparison vectors for
// content-similarity scenarios.
func FromBytesSeed(data []byte, dim uint32, nnz int) *SparseVector {
	h := sha256.Sum256(data)
	var seed int64
	for i := 0; i < 8; i++ {
		seed = seed<<8 | int64(h[i])
	}
	if seed < 0 {
		seed = -seed
	}
	rng := rand.New(rand.NewSource(seed))

	indices := rng.Perm(int(dim))
	if nnz > int(dim) {
		nnz = int(dim)
	}
	half := nnz / 2
	posVals := make([]uint32, 0, half)
	negVals := make([]uint32, 0, nnz-half)
	for i := 0; i < half; i++ {
		posVals = append(posVals, uint32(indices[i]))
	}
	for i := half; i < nnz; i++ {
		negVals = append(negVals, uint32(indices[i]))
	}
	return &SparseVector{dim: dim, pos: roaring.BitmapOf(posVals...), neg: roaring.BitmapOf(negVals...)}
}
