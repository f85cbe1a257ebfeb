package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

func TestBoltStore_PutAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.bolt")
	s, err := OpenBoltStore(path, 16)
	require.NoError(t, err)
	defer s.Close()

	v := vsa.NewSparseVectorFromIndices(16, []uint32{0, 3, 9}, []uint32{1, 2})
	require.NoError(t, s.Put(5, v))

	got, err := s.Get(5)
	require.NoError(t, err)
	assert.Equal(t, v.Dim(), got.Dim())
	assert.ElementsMatch(t, v.PosIndices(), got.PosIndices())
	assert.ElementsMatch(t, v.NegIndices(), got.NegIndices())
}

func TestBoltStore_GetMissingReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.bolt")
	s, err := OpenBoltStore(path, 16)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(42)
	require.Error(t, err)
	var missing *engram.MissingVectorError
	assert.ErrorAs(t, err, &missing)
}

func TestBoltStore_PutDimensionMismatchErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.bolt")
	s, err := OpenBoltStore(path, 16)
	require.NoError(t, err)
	defer s.Close()

	err = s.Put(1, vsa.NewSparseVector(32))
	var mismatch ErrDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, uint32(16), mismatch.Expected)
	assert.Equal(t, uint32(32), mismatch.Got)
}

func TestBoltStore_PutAllThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.bolt")
	s, err := OpenBoltStore(path, 16)
	require.NoError(t, err)
	defer s.Close()

	cb := engram.NewCodebook(16)
	cb.Insert(1, vsa.NewSparseVectorFromIndices(16, []uint32{1}, nil))
	cb.Insert(2, vsa.NewSparseVectorFromIndices(16, nil, []uint32{2}))
	require.NoError(t, s.PutAll(cb))

	for _, id := range cb.IDs() {
		want, _ := cb.Get(id)
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.ElementsMatch(t, want.PosIndices(), got.PosIndices())
		assert.ElementsMatch(t, want.NegIndices(), got.NegIndices())
	}
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codebook.bolt")

	s, err := OpenBoltStore(path, 8)
	require.NoError(t, err)
	v := vsa.NewSparseVectorFromIndices(8, []uint32{0, 7}, []uint32{3})
	require.NoError(t, s.Put(1, v))
	require.NoError(t, s.Close())

	reopened, err := OpenBoltStore(path, 8)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, v.PosIndices(), got.PosIndices())
	assert.ElementsMatch(t, v.NegIndices(), got.NegIndices())
}
