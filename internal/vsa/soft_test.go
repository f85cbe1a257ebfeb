package vsa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amn-labs/holofs/internal/trit"
)

func TestSoftVector_AccumulateAndHardenMatchesBundleSumMany(t *testing.T) {
	vecs := []*SparseVector{
		randomSparse(t, testDim, 30),
		randomSparse(t, testDim, 30),
		randomSparse(t, testDim, 30),
	}
	soft := NewSoftVector(testDim)
	for _, v := range vecs {
		soft.AccumulateSparse(v)
	}
	want := BundleSumMany(vecs)
	got := soft.Harden(1).ToSparse()
	assert.ElementsMatch(t, want.PosIndices(), got.PosIndices())
	assert.ElementsMatch(t, want.NegIndices(), got.NegIndices())
}

func TestSoftVector_ResetZeroesAccumulator(t *testing.T) {
	soft := NewSoftVector(testDim)
	soft.AccumulateSparse(randomSparse(t, testDim, 30))
	soft.Reset()
	got := soft.Harden(1)
	assert.Equal(t, 0, got.NNZ())
}

func TestSoftVector_OpposingContributionsCancel(t *testing.T) {
	a := NewSparseVectorFromIndices(testDim, []uint32{1, 2}, nil)
	b := NewSparseVectorFromIndices(testDim, nil, []uint32{1})
	soft := NewSoftVector(testDim)
	soft.AccumulateSparse(a)
	soft.AccumulateSparse(b)
	assert.Equal(t, trit.Z, soft.HardenAt(1, 1))
}

func TestSoftVector_MagnitudeSaturatesAtCap(t *testing.T) {
	soft := NewSoftVector(testDim)
	v := NewSparseVectorFromIndices(testDim, []uint32{0}, nil)
	for i := 0; i < SoftMagnitudeCap+5; i++ {
		soft.AccumulateSparse(v)
	}
	sign, mag := soft.At(0)
	assert.Equal(t, trit.P, sign)
	assert.EqualValues(t, SoftMagnitudeCap, mag)
}

func TestSoftVector_HardenRespectsThreshold(t *testing.T) {
	soft := NewSoftVector(testDim)
	v := NewSparseVectorFromIndices(testDim, []uint32{0}, nil)
	soft.AccumulateSparse(v)
	soft.AccumulateSparse(v)
	assert.Equal(t, trit.P, soft.HardenAt(0, 2))
	assert.Equal(t, trit.Z, soft.HardenAt(0, 3))
}
