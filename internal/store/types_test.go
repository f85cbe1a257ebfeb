package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amn-labs/holofs/internal/vsa"
)

func TestToDenseFromDense_RoundTrips(t *testing.T) {
	v := vsa.NewSparseVectorFromIndices(10, []uint32{0, 4, 7}, []uint32{1, 8})

	dense := toDense(v)
	assert.Len(t, dense, 10)
	assert.Equal(t, float32(1), dense[0])
	assert.Equal(t, float32(-1), dense[1])
	assert.Equal(t, float32(0), dense[2])

	back := fromDense(10, dense)
	assert.ElementsMatch(t, v.PosIndices(), back.PosIndices())
	assert.ElementsMatch(t, v.NegIndices(), back.NegIndices())
}

func TestErrDimensionMismatch_Error(t *testing.T) {
	err := ErrDimensionMismatch{Expected: 10, Got: 20}
	assert.Contains(t, err.Error(), "10")
	assert.Contains(t, err.Error(), "20")
}
