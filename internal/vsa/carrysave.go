package vsa

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/amn-labs/holofs/internal/trit"
)

// Accumulator is a carry-save N-ary bundler over bitsliced operands: four
// bit planes (sumPos, sumNeg, carryPos, carryNeg) track a 2-bit ripple
// counter per lane per sign, so Add costs six word-wise bitwise ops (three per sign)
// regardless of how many vectors have already been folded in, with no
// per-lane branching and no intermediate ternary materialization.
type Accumulator struct {
	dim      uint32
	sumPos   *bitset.BitSet
	sumNeg   *bitset.BitSet
	carryPos *bitset.BitSet
	carryNeg *bitset.BitSet
}

// NewAccumulator returns a zeroed carry-save accumulator of the given
// dimension.
func NewAccumulator(dim uint32) *Accumulator {
	return &Accumulator{
		dim:      dim,
		sumPos:   bitset.New(uint(dim)),
		sumNeg:   bitset.New(uint(dim)),
		carryPos: bitset.New(uint(dim)),
		carryNeg: bitset.New(uint(dim)),
	}
}

// Dim returns the accumulator's logical dimension.
func (a *Accumulator) Dim() uint32 { return a.dim }

// Add folds bv in as one vote per sign plane: each lane's (carry, sum) pair
// advances by one step of a 2-bit ripple counter, counting how many times
// that lane has been set across all Add calls so far, mod 4.
func (a *Accumulator) Add(bv *BitslicedVector) {
	rippleAdd(a.sumPos, a.carryPos, bv.pos)
	rippleAdd(a.sumNeg, a.carryNeg, bv.neg)
}

// rippleAdd advances the (carry, sum) ripple counter by the bits set in in_.
// For each set bit: newSum = sum XOR 1, carryToggle = sum AND 1 (i.e. sum
// before the XOR), newCarry = carry XOR carryToggle. sum must be read before
// it is reassigned.
func rippleAdd(sum, carry, in *bitset.BitSet) {
	carryToggle := sum.Clone().Intersection(in)
	sum.InPlaceSymmetricDifference(in)
	carry.InPlaceSymmetricDifference(carryToggle)
}

// Finalize collapses the ripple counters to a ternary BitslicedVector by
// majority vote per sign (count >= 2 out of the 4-valued counter wins that
// sign), then re-seeds the accumulator with the finalized result as a
// single fresh vote so a long-running accumulation can keep folding in more
// vectors without losing the tally collapsed so far.
func (a *Accumulator) Finalize() *BitslicedVector {
	out := NewBitslicedVector(a.dim)
	for lane := uint32(0); lane < a.dim; lane++ {
		posCount := rippleCount(a.carryPos, a.sumPos, lane)
		negCount := rippleCount(a.carryNeg, a.sumNeg, lane)
		switch {
		case posCount >= 2 && posCount > negCount:
			out.pos.Set(uint(lane))
		case negCount >= 2 && negCount > posCount:
			out.neg.Set(uint(lane))
		}
	}
	a.reseed(out)
	return out
}

// rippleCount decodes a lane's 2-bit (carry, sum) ripple counter into its
// 0-3 vote count.
func rippleCount(carry, sum *bitset.BitSet, lane uint32) int {
	c, s := 0, 0
	if carry.Test(uint(lane)) {
		c = 1
	}
	if sum.Test(uint(lane)) {
		s = 1
	}
	return c<<1 | s
}

// reseed resets the accumulator then folds in v as a single vote, so the
// finalized tally survives as the starting point for further Add calls.
func (a *Accumulator) reseed(v *BitslicedVector) {
	a.sumPos.ClearAll()
	a.sumNeg.ClearAll()
	a.carryPos.ClearAll()
	a.carryNeg.ClearAll()
	a.Add(v)
}

// At returns the trit a single lane currently holds, equivalent to the sign
// Finalize would assign it, without materializing the full vector or
// mutating accumulator state.
func (a *Accumulator) At(lane uint32) trit.Trit {
	posCount := rippleCount(a.carryPos, a.sumPos, lane)
	negCount := rippleCount(a.carryNeg, a.sumNeg, lane)
	switch {
	case posCount >= 2 && posCount > negCount:
		return trit.P
	case negCount >= 2 && negCount > posCount:
		return trit.N
	default:
		return trit.Z
	}
}
