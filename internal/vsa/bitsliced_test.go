package vsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func randomBitsliced(t *testing.T, dim uint32, nnz int) *BitslicedVector {
	t.Helper()
	return randomSparse(t, dim, nnz).ToBitsliced()
}

func TestBitslicedVector_RoundTripsThroughSparse(t *testing.T) {
	sv := randomSparse(t, testDim, 60)
	bv := sv.ToBitsliced()
	back := bv.ToSparse()
	assert.ElementsMatch(t, sv.PosIndices(), back.PosIndices())
	assert.ElementsMatch(t, sv.NegIndices(), back.NegIndices())
}

func TestBitslicedVector_SelfCosineIsOne(t *testing.T) {
	bv := randomBitsliced(t, testDim, 70)
	assert.InDelta(t, 1.0, bv.Cosine(bv), 1e-9)
}

func TestBitslicedVector_BundleMatchesSparse(t *testing.T) {
	a := randomSparse(t, testDim, 40)
	b := randomSparse(t, testDim, 40)
	sparseResult := a.Bundle(b)
	bitslicedResult := a.ToBitsliced().Bundle(b.ToBitsliced())
	assert.ElementsMatch(t, sparseResult.PosIndices(), bitslicedResult.ToSparse().PosIndices())
	assert.ElementsMatch(t, sparseResult.NegIndices(), bitslicedResult.ToSparse().NegIndices())
}

func TestBitslicedVector_BindMatchesSparse(t *testing.T) {
	a := randomSparse(t, testDim, 40)
	b := randomSparse(t, testDim, 40)
	sparseResult := a.Bind(b)
	bitslicedResult := a.ToBitsliced().Bind(b.ToBitsliced())
	assert.ElementsMatch(t, sparseResult.PosIndices(), bitslicedResult.ToSparse().PosIndices())
	assert.ElementsMatch(t, sparseResult.NegIndices(), bitslicedResult.ToSparse().NegIndices())
}

func TestBitslicedVector_CosineMatchesSparse(t *testing.T) {
	a := randomSparse(t, testDim, 40)
	b := randomSparse(t, testDim, 40)
	assert.InDelta(t, a.Cosine(b), a.ToBitsliced().Cosine(b.ToBitsliced()), 1e-9)
}

func TestBitslicedVector_PermuteRoundTrips(t *testing.T) {
	bv := randomBitsliced(t, testDim, 50)
	shifted := bv.Permute(33)
	back := shifted.InversePermute(33)
	assert.ElementsMatch(t, bv.ToSparse().PosIndices(), back.ToSparse().PosIndices())
	assert.ElementsMatch(t, bv.ToSparse().NegIndices(), back.ToSparse().NegIndices())
}

func TestBitslicedVector_WordAlignedPermuteMatchesScalar(t *testing.T) {
	const alignedDim = 1024
	bv := randomBitsliced(t, alignedDim, 80)
	wordAligned := bv.Permute(3 * wordBits)
	scalar := bv.permuteScalar(3 * wordBits)
	assert.ElementsMatch(t, wordAligned.ToSparse().PosIndices(), scalar.ToSparse().PosIndices())
	assert.ElementsMatch(t, wordAligned.ToSparse().NegIndices(), scalar.ToSparse().NegIndices())
}

func TestBitslicedVector_WordAlignedPermuteRoundTrips(t *testing.T) {
	const alignedDim = 1024
	bv := randomBitsliced(t, alignedDim, 80)
	shifted := bv.Permute(5 * wordBits)
	back := shifted.InversePermute(5 * wordBits)
	assert.ElementsMatch(t, bv.ToSparse().PosIndices(), back.ToSparse().PosIndices())
	assert.ElementsMatch(t, bv.ToSparse().NegIndices(), back.ToSparse().NegIndices())
}

func TestBitslicedVector_PackedRoundTrip(t *testing.T) {
	bv := randomBitsliced(t, testDim, 60)
	packed := bv.ToPacked()
	back := FromPacked(testDim, packed)
	assert.ElementsMatch(t, bv.ToSparse().PosIndices(), back.ToSparse().PosIndices())
	assert.ElementsMatch(t, bv.ToSparse().NegIndices(), back.ToSparse().NegIndices())
}
