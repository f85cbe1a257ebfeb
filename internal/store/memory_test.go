package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

func TestMemoryStore_GetForwardsToCodebook(t *testing.T) {
	cb := engram.NewCodebook(16)
	v := vsa.NewSparseVectorFromIndices(16, []uint32{1, 2, 3}, []uint32{4, 5})
	cb.Insert(7, v)

	s := NewMemoryStore(cb)
	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestMemoryStore_GetMissingReturnsError(t *testing.T) {
	s := NewMemoryStore(engram.NewCodebook(16))
	_, err := s.Get(99)
	require.Error(t, err)
	var missing *engram.MissingVectorError
	assert.ErrorAs(t, err, &missing)
}

func TestMemoryStore_Len(t *testing.T) {
	cb := engram.NewCodebook(16)
	cb.Insert(1, vsa.NewSparseVector(16))
	cb.Insert(2, vsa.NewSparseVector(16))

	s := NewMemoryStore(cb)
	assert.Equal(t, 2, s.Len())
}
