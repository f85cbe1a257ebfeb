package engram

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amn-labs/holofs/internal/correction"
	"github.com/amn-labs/holofs/internal/reversible"
	"github.com/amn-labs/holofs/internal/vsa"
)

const testDim = 20000

// randomChunkVector deterministically derives a sparse vector from id so
// codebook tests can build reproducible multi-chunk fixtures without
// depending on ingest.
func randomChunkVector(t *testing.T, dim uint32, id ChunkID) *vsa.SparseVector {
	t.Helper()
	rng := rand.New(rand.NewSource(int64(id) + 1))
	var pos, neg []uint32
	for i := 0; i < 8; i++ {
		lane := rng.Uint32() % dim
		if rng.Intn(2) == 0 {
			pos = append(pos, lane)
		} else {
			neg = append(neg, lane)
		}
	}
	return vsa.NewSparseVectorFromIndices(dim, pos, neg)
}

func ingestOneFile(t *testing.T, e *Engram, path string, data []byte, chunkSize int, cfg reversible.Config) FileEntry {
	t.Helper()
	chunks := ChunkBytes(data, chunkSize)
	vectors := EncodeFile(data, cfg, path, chunkSize, e.Dim)
	require.Len(t, vectors, len(chunks))

	corrections := make([]correction.Correction, len(chunks))
	for i, chunk := range chunks {
		corrections[i] = BuildCorrection(chunk, vectors[i], cfg, path, e.Dim)
	}
	return e.AddFile(path, true, uint64(len(data)), chunks, vectors, corrections)
}

func TestEngram_IngestAndExtractRoundTrips(t *testing.T) {
	e := New(testDim)
	cfg := reversible.Default
	data := []byte("package main\n\nfunc main() {}\n")
	entry := ingestOneFile(t, e, "main.go", data, 16, cfg)

	out, err := e.ExtractFile(entry, cfg, 16)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestEngram_ExtractEmptyFile(t *testing.T) {
	e := New(testDim)
	cfg := reversible.Default
	entry := ingestOneFile(t, e, "empty.txt", nil, 16, cfg)
	out, err := e.ExtractFile(entry, cfg, 16)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEngram_RootIsBundleOverCodebook(t *testing.T) {
	e := New(testDim)
	cfg := reversible.Default
	ingestOneFile(t, e, "a.txt", []byte("alpha content here"), 8, cfg)
	ingestOneFile(t, e, "b.txt", []byte("beta content here"), 8, cfg)
	root := e.Root()
	assert.Greater(t, root.NNZ(), 0)
}

func TestCodebook_RootIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	c := NewCodebook(testDim)
	for id := ChunkID(0); id < 40; id++ {
		c.Insert(id, randomChunkVector(t, testDim, id))
	}
	first := c.Root()
	for i := 0; i < 10; i++ {
		again := c.Root()
		assert.ElementsMatch(t, first.PosIndices(), again.PosIndices())
		assert.ElementsMatch(t, first.NegIndices(), again.NegIndices())
	}
}

func TestCodebook_MissingVectorError(t *testing.T) {
	c := NewCodebook(testDim)
	_, err := c.Get(999)
	assert.Error(t, err)
	var missingErr *MissingVectorError
	assert.ErrorAs(t, err, &missingErr)
}

func TestManifest_AddFileTracksTotalChunks(t *testing.T) {
	m := NewManifest()
	m.AddFile(FileEntry{Path: "a.txt", Chunks: []ChunkID{0, 1, 2}})
	m.AddFile(FileEntry{Path: "b.txt", Chunks: []ChunkID{3}})
	assert.Equal(t, uint32(4), m.TotalChunks)
	assert.Len(t, m.Files, 2)
}

func TestBuildHierarchical_CreatesNodesAlongFilePath(t *testing.T) {
	e := New(testDim)
	cfg := reversible.Default
	manifest := NewManifest()

	e1 := ingestOneFile(t, e, "src/pkg/a.go", []byte("package pkg"), 8, cfg)
	manifest.AddFile(e1)
	e2 := ingestOneFile(t, e, "src/pkg/b.go", []byte("package pkg two"), 8, cfg)
	manifest.AddFile(e2)

	tree, err := BuildHierarchical(e, manifest)
	require.NoError(t, err)

	srcNode := tree.Lookup("src")
	require.NotNil(t, srcNode)
	pkgNode := tree.Lookup("src/pkg")
	require.NotNil(t, pkgNode)
	assert.Greater(t, pkgNode.Vector.NNZ(), 0)
}

func TestBuildHierarchical_MissingNodeLookupIsNil(t *testing.T) {
	e := New(testDim)
	manifest := NewManifest()
	tree, err := BuildHierarchical(e, manifest)
	require.NoError(t, err)
	assert.Nil(t, tree.Lookup("does/not/exist"))
}
