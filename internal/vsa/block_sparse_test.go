package vsa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amn-labs/holofs/internal/trit"
)

func TestBlockSparseVector_RoundTripsThroughSparse(t *testing.T) {
	sv := randomSparse(t, testDim, 70)
	bsv := sv.ToBlockSparse()
	back := bsv.ToSparse()
	assert.ElementsMatch(t, sv.PosIndices(), back.PosIndices())
	assert.ElementsMatch(t, sv.NegIndices(), back.NegIndices())
}

func TestBlockSparseVector_NNZMatchesSource(t *testing.T) {
	sv := randomSparse(t, testDim, 70)
	bsv := sv.ToBlockSparse()
	assert.Equal(t, sv.NNZ(), bsv.NNZ())
}

func TestBlockSparseVector_AtMatchesSparse(t *testing.T) {
	sv := NewSparseVectorFromIndices(testDim, []uint32{5, 70, 130}, []uint32{6, 71})
	bsv := sv.ToBlockSparse()
	assert.Equal(t, trit.P, bsv.At(5))
	assert.Equal(t, trit.N, bsv.At(6))
	assert.Equal(t, trit.Z, bsv.At(999))
}

func TestBlockSparseVector_BundleMatchesSparse(t *testing.T) {
	a := randomSparse(t, testDim, 40)
	b := randomSparse(t, testDim, 40)
	want := a.Bundle(b)
	got := a.ToBlockSparse().Bundle(b.ToBlockSparse()).ToSparse()
	assert.ElementsMatch(t, want.PosIndices(), got.PosIndices())
	assert.ElementsMatch(t, want.NegIndices(), got.NegIndices())
}

func TestBlockSparseVector_BlockCountBoundedByDim(t *testing.T) {
	sv := randomSparse(t, testDim, 70)
	bsv := sv.ToBlockSparse()
	assert.LessOrEqual(t, bsv.BlockCount(), int(testDim/BlockSize)+1)
}

func TestBlockSparseVector_RoundTripIsValid(t *testing.T) {
	sv := randomSparse(t, testDim, 70)
	bsv := sv.ToBlockSparse()
	assert.True(t, bsv.IsValid())
	assert.NoError(t, bsv.Validate())
}

func TestBlockSparseVector_Validate_DetectsOutOfOrderBlocks(t *testing.T) {
	bsv := &BlockSparseVector{dim: testDim, blocks: []block{
		{index: 2, pos: 1},
		{index: 1, pos: 1},
	}}
	assert.False(t, bsv.IsValid())
	assert.IsType(t, BlockOrderError{}, bsv.Validate())
}

func TestBlockSparseVector_Validate_DetectsPosNegOverlap(t *testing.T) {
	bsv := &BlockSparseVector{dim: testDim, blocks: []block{
		{index: 0, pos: 1, neg: 1},
	}}
	assert.False(t, bsv.IsValid())
	assert.IsType(t, BlockOverlapError{}, bsv.Validate())
}

func TestBlockSparseVector_Validate_DetectsEmptyStoredBlock(t *testing.T) {
	bsv := &BlockSparseVector{dim: testDim, blocks: []block{
		{index: 0},
	}}
	assert.False(t, bsv.IsValid())
	assert.IsType(t, BlockEmptyError{}, bsv.Validate())
}

func TestBlockSparseVector_BindOnlyIntersectingBlocksContribute(t *testing.T) {
	a := &BlockSparseVector{dim: testDim, blocks: []block{
		{index: 0, pos: 0b1},
		{index: 1, pos: 0b1},
	}}
	b := &BlockSparseVector{dim: testDim, blocks: []block{
		{index: 0, pos: 0b1},
	}}
	got := a.Bind(b)
	assert.Equal(t, 1, got.BlockCount())
	assert.Equal(t, trit.P, got.At(0))
	assert.Equal(t, trit.Z, got.At(BlockSize))
}
