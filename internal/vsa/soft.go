package vsa

import "github.com/amn-labs/holofs/internal/trit"

// SoftMagnitudeCap is the saturating ceiling of a lane's vote magnitude.
const SoftMagnitudeCap = 7

// SoftVector is a per-lane saturating 3-bit-magnitude-plus-sign vote
// accumulator: each Accumulate call casts one vote per non-zero lane of the
// input, strengthening a lane's existing sign up to SoftMagnitudeCap or
// eroding it toward zero on disagreement. It has no Bind and no Cosine —
// those require a thresholded (ternary) operand, not a running vote — and
// exists to fold many vectors into a bundle without materializing an
// intermediate ternary vector per fold step.
type SoftVector struct {
	dim  uint32
	mag  []uint8
	sign []trit.Trit
}

// NewSoftVector returns a zeroed accumulator of the given dimension.
func NewSoftVector(dim uint32) *SoftVector {
	return &SoftVector{dim: dim, mag: make([]uint8, dim), sign: make([]trit.Trit, dim)}
}

// Dim returns the vector's logical dimension.
func (s *SoftVector) Dim() uint32 { return s.dim }

// vote applies a single ±1 vote to one lane: agreement with the lane's
// current sign saturates the magnitude at SoftMagnitudeCap; disagreement
// erodes it by one, flipping the lane to the new sign once magnitude hits
// zero.
func (s *SoftVector) vote(lane uint32, v trit.Trit) {
	switch {
	case s.sign[lane] == trit.Z:
		s.sign[lane] = v
		s.mag[lane] = 1
	case s.sign[lane] == v:
		if s.mag[lane] < SoftMagnitudeCap {
			s.mag[lane]++
		}
	default:
		s.mag[lane]--
		if s.mag[lane] == 0 {
			s.sign[lane] = trit.Z
		}
	}
}

// Accumulate casts one vote per non-zero lane of v.
func (s *SoftVector) Accumulate(v *BitslicedVector) {
	for i, e := v.pos.NextSet(0); e; i, e = v.pos.NextSet(i + 1) {
		s.vote(uint32(i), trit.P)
	}
	for i, e := v.neg.NextSet(0); e; i, e = v.neg.NextSet(i + 1) {
		s.vote(uint32(i), trit.N)
	}
}

// AccumulateSparse casts one vote per non-zero lane of v.
func (s *SoftVector) AccumulateSparse(v *SparseVector) {
	it := v.pos.Iterator()
	for it.HasNext() {
		s.vote(it.Next(), trit.P)
	}
	it = v.neg.Iterator()
	for it.HasNext() {
		s.vote(it.Next(), trit.N)
	}
}

// At returns the running (sign, magnitude) pair at a lane, not yet hardened.
func (s *SoftVector) At(lane uint32) (trit.Trit, uint8) { return s.sign[lane], s.mag[lane] }

// Harden collapses the accumulator to a ternary BitslicedVector: a lane
// keeps its accumulated sign only if its magnitude has reached threshold,
// otherwise it collapses to Z. threshold is clamped to [1, SoftMagnitudeCap].
func (s *SoftVector) Harden(threshold int) *BitslicedVector {
	if threshold < 1 {
		threshold = 1
	}
	if threshold > SoftMagnitudeCap {
		threshold = SoftMagnitudeCap
	}
	bv := NewBitslicedVector(s.dim)
	for lane := uint32(0); lane < s.dim; lane++ {
		if int(s.mag[lane]) < threshold {
			continue
		}
		switch s.sign[lane] {
		case trit.P:
			bv.pos.Set(uint(lane))
		case trit.N:
			bv.neg.Set(uint(lane))
		}
	}
	return bv
}

// HardenAt returns the trit a single lane would harden to at the given
// threshold, without materializing the full vector.
func (s *SoftVector) HardenAt(lane uint32, threshold int) trit.Trit {
	if threshold < 1 {
		threshold = 1
	}
	if threshold > SoftMagnitudeCap {
		threshold = SoftMagnitudeCap
	}
	if int(s.mag[lane]) < threshold {
		return trit.Z
	}
	return s.sign[lane]
}

// Reset zeroes the accumulator for reuse across ingest batches.
func (s *SoftVector) Reset() {
	for i := range s.mag {
		s.mag[i] = 0
		s.sign[i] = trit.Z
	}
}
