package vsa

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/amn-labs/holofs/internal/trit"
)

// BitslicedVector represents a D-dimensional ternary vector as two dense bit
// planes (pos, neg), one bit per lane, disjoint by construction. It trades
// sparse representation's small footprint at low density for branch-free,
// word-at-a-time bitwise kernels that are cheap once density climbs past
// the hybrid dispatcher's crossover point.
type BitslicedVector struct {
	dim uint32
	pos *bitset.BitSet
	neg *bitset.BitSet
}

// NewBitslicedVector returns the zero vector of the given dimension.
func NewBitslicedVector(dim uint32) *BitslicedVector {
	return &BitslicedVector{dim: dim, pos: bitset.New(uint(dim)), neg: bitset.New(uint(dim))}
}

// ToBitsliced converts a SparseVector to its bitsliced equivalent.
func (v *SparseVector) ToBitsliced() *BitslicedVector {
	bv := NewBitslicedVector(v.dim)
	it := v.pos.Iterator()
	for it.HasNext() {
		bv.pos.Set(uint(it.Next()))
	}
	it = v.neg.Iterator()
	for it.HasNext() {
		bv.neg.Set(uint(it.Next()))
	}
	return bv
}

// ToSparse converts a BitslicedVector back to sparse form.
func (bv *BitslicedVector) ToSparse() *SparseVector {
	sv := NewSparseVector(bv.dim)
	for i, e := bv.pos.NextSet(0); e; i, e = bv.pos.NextSet(i + 1) {
		sv.pos.Add(uint32(i))
	}
	for i, e := bv.neg.NextSet(0); e; i, e = bv.neg.NextSet(i + 1) {
		sv.neg.Add(uint32(i))
	}
	return sv
}

// Dim returns the vector's logical dimension.
func (bv *BitslicedVector) Dim() uint32 { return bv.dim }

// NNZ returns the number of non-zero lanes.
func (bv *BitslicedVector) NNZ() int {
	return int(bv.pos.Count() + bv.neg.Count())
}

// At returns the trit value at a given lane.
func (bv *BitslicedVector) At(lane uint32) trit.Trit {
	switch {
	case bv.pos.Test(uint(lane)):
		return trit.P
	case bv.neg.Test(uint(lane)):
		return trit.N
	default:
		return trit.Z
	}
}

// Clone returns a deep, independent copy.
func (bv *BitslicedVector) Clone() *BitslicedVector {
	return &BitslicedVector{dim: bv.dim, pos: bv.pos.Clone(), neg: bv.neg.Clone()}
}

// Bundle is the pairwise conflict-cancel superposition. Vectors at or above
// wideWordThreshold on SIMD-capable hardware go through the word-wise bit
// plane path (wideBundle); everything else goes through the lane-by-lane
// scalar reference (scalarBundle). Both agree bit-for-bit.
func (bv *BitslicedVector) Bundle(o *BitslicedVector) *BitslicedVector {
	if useWidePath(bv.dim) {
		return bv.wideBundle(o)
	}
	return bv.scalarBundle(o)
}

// wideBundle computes Bundle directly on the bit planes: pos_out = (pos_a
// &^ neg_b) | (pos_b &^ neg_a), and symmetrically for neg_out.
func (bv *BitslicedVector) wideBundle(o *BitslicedVector) *BitslicedVector {
	aPosNotBNeg := bv.pos.Clone().Difference(o.neg)
	bPosNotANeg := o.pos.Clone().Difference(bv.neg)
	posOut := aPosNotBNeg.Union(bPosNotANeg)

	aNegNotBPos := bv.neg.Clone().Difference(o.pos)
	bNegNotAPos := o.neg.Clone().Difference(bv.pos)
	negOut := aNegNotBPos.Union(bNegNotAPos)

	return &BitslicedVector{dim: bv.dim, pos: posOut, neg: negOut}
}

// scalarBundle computes Bundle one lane at a time via saturating trit
// addition, which implements the same conflict-cancel rule as wideBundle.
func (bv *BitslicedVector) scalarBundle(o *BitslicedVector) *BitslicedVector {
	out := NewBitslicedVector(bv.dim)
	for lane := uint32(0); lane < bv.dim; lane++ {
		switch bv.At(lane).AddSaturating(o.At(lane)) {
		case trit.P:
			out.pos.Set(uint(lane))
		case trit.N:
			out.neg.Set(uint(lane))
		}
	}
	return out
}

// Bind is element-wise trit multiplication. Dispatches between the
// word-wise and scalar paths the same way Bundle does.
func (bv *BitslicedVector) Bind(o *BitslicedVector) *BitslicedVector {
	if useWidePath(bv.dim) {
		return bv.wideBind(o)
	}
	return bv.scalarBind(o)
}

// wideBind computes Bind directly on the bit planes: pos_out = (pos_a &
// pos_b) | (neg_a & neg_b), neg_out = (pos_a & neg_b) | (neg_a & pos_b).
func (bv *BitslicedVector) wideBind(o *BitslicedVector) *BitslicedVector {
	posOut := bv.pos.Clone().Intersection(o.pos).Union(bv.neg.Clone().Intersection(o.neg))
	negOut := bv.pos.Clone().Intersection(o.neg).Union(bv.neg.Clone().Intersection(o.pos))
	return &BitslicedVector{dim: bv.dim, pos: posOut, neg: negOut}
}

// scalarBind computes Bind one lane at a time via trit multiplication,
// which implements the same rule as wideBind.
func (bv *BitslicedVector) scalarBind(o *BitslicedVector) *BitslicedVector {
	out := NewBitslicedVector(bv.dim)
	for lane := uint32(0); lane < bv.dim; lane++ {
		switch bv.At(lane).Mul(o.At(lane)) {
		case trit.P:
			out.pos.Set(uint(lane))
		case trit.N:
			out.neg.Set(uint(lane))
		}
	}
	return out
}

// Cosine returns the normalised ternary dot product in [-1, 1]. Dispatches
// between the word-wise and scalar paths the same way Bind/Bundle do.
func (bv *BitslicedVector) Cosine(o *BitslicedVector) float64 {
	if bv.NNZ() == 0 || o.NNZ() == 0 {
		return 0
	}
	if useWidePath(bv.dim) {
		return bv.wideCosine(o)
	}
	return bv.scalarCosine(o)
}

func (bv *BitslicedVector) wideCosine(o *BitslicedVector) float64 {
	ppCount := bv.pos.Clone().IntersectionCardinality(o.pos)
	nnCount := bv.neg.Clone().IntersectionCardinality(o.neg)
	pnCount := bv.pos.Clone().IntersectionCardinality(o.neg)
	npCount := bv.neg.Clone().IntersectionCardinality(o.pos)
	dot := int64(ppCount) + int64(nnCount) - int64(pnCount) - int64(npCount)
	normA := float64(bv.NNZ())
	normB := float64(o.NNZ())
	return float64(dot) / (sqrt(normA) * sqrt(normB))
}

func (bv *BitslicedVector) scalarCosine(o *BitslicedVector) float64 {
	var dot int64
	for lane := uint32(0); lane < bv.dim; lane++ {
		dot += int64(bv.At(lane)) * int64(o.At(lane))
	}
	normA := float64(bv.NNZ())
	normB := float64(o.NNZ())
	return float64(dot) / (sqrt(normA) * sqrt(normB))
}

// wordBits is the native word width bitset.BitSet packs lanes into; a shift
// that is a multiple of it moves whole words instead of individual lanes.
const wordBits = 64

// Permute applies the cyclic shift π_k. When dim is word-aligned (a
// multiple of wordBits) and the shift itself is word-aligned, it degenerates
// to rotating word indices, which is pure data movement with no per-bit
// work. Any other shift falls back to the lane-by-lane reference, since the
// partial-word case requires combining adjacent words with cross-word carry
// bits and that arithmetic needs a test run to trust bit-for-bit.
func (bv *BitslicedVector) Permute(shift uint32) *BitslicedVector {
	d := bv.dim
	shift %= d
	if d%wordBits == 0 && shift%wordBits == 0 {
		return bv.permuteWordAligned(shift / wordBits)
	}
	return bv.permuteScalar(shift)
}

// permuteWordAligned rotates both planes q words to the right: word w of the
// output is word (w - q mod nWords) of the input.
func (bv *BitslicedVector) permuteWordAligned(q uint32) *BitslicedVector {
	return &BitslicedVector{
		dim: bv.dim,
		pos: rotateWords(bv.pos, bv.dim, q),
		neg: rotateWords(bv.neg, bv.dim, q),
	}
}

func rotateWords(b *bitset.BitSet, dim, q uint32) *bitset.BitSet {
	words := b.Bytes()
	n := uint32(len(words))
	out := make([]uint64, n)
	for w := uint32(0); w < n; w++ {
		out[w] = words[(w+n-q%n)%n]
	}
	return bitset.From(out)
}

// permuteScalar rebuilds both planes lane by lane. Unlike SparseVector.Permute,
// there is no sparse shortcut: every set lane is visited regardless of
// whether the shift is aligned.
func (bv *BitslicedVector) permuteScalar(shift uint32) *BitslicedVector {
	d := bv.dim
	out := NewBitslicedVector(d)
	for i, e := bv.pos.NextSet(0); e; i, e = bv.pos.NextSet(i + 1) {
		out.pos.Set(uint((uint32(i) + shift) % d))
	}
	for i, e := bv.neg.NextSet(0); e; i, e = bv.neg.NextSet(i + 1) {
		out.neg.Set(uint((uint32(i) + shift) % d))
	}
	return out
}

// ToPacked encodes the vector as 2 bits per lane (bit0 = pos, bit1 = neg),
// 4 lanes per byte, lane 0 in the low bits of byte 0.
func (bv *BitslicedVector) ToPacked() []byte {
	out := make([]byte, (bv.dim+3)/4)
	for lane := uint32(0); lane < bv.dim; lane++ {
		var code byte
		switch {
		case bv.pos.Test(uint(lane)):
			code = 0b01
		case bv.neg.Test(uint(lane)):
			code = 0b10
		}
		out[lane/4] |= code << ((lane % 4) * 2)
	}
	return out
}

// FromPacked decodes the interleaved 2-bit-per-lane format ToPacked produces.
func FromPacked(dim uint32, data []byte) *BitslicedVector {
	bv := NewBitslicedVector(dim)
	for lane := uint32(0); lane < dim; lane++ {
		code := (data[lane/4] >> ((lane % 4) * 2)) & 0b11
		switch code {
		case 0b01:
			bv.pos.Set(uint(lane))
		case 0b10:
			bv.neg.Set(uint(lane))
		}
	}
	return bv
}

// InversePermute undoes Permute(shift).
func (bv *BitslicedVector) InversePermute(shift uint32) *BitslicedVector {
	d := bv.dim
	shift %= d
	return bv.Permute((d - shift) % d)
}
