package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amn-labs/holofs/internal/engram"
)

func openTestManifestStore(t *testing.T) *ManifestStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.db")
	s, err := OpenManifestStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestManifestStore_PutAndGetFile(t *testing.T) {
	s := openTestManifestStore(t)

	entry := engram.FileEntry{Path: "a/b.txt", IsText: true, Size: 42, Chunks: []engram.ChunkID{3, 1, 2}}
	require.NoError(t, s.PutFile(entry))

	got, err := s.GetFile("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestManifestStore_GetFileMissingReturnsError(t *testing.T) {
	s := openTestManifestStore(t)

	_, err := s.GetFile("nope.txt")
	require.Error(t, err)
	var notFound *FileNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestManifestStore_PutFileReplacesChunkList(t *testing.T) {
	s := openTestManifestStore(t)

	require.NoError(t, s.PutFile(engram.FileEntry{Path: "a.bin", IsText: false, Size: 10, Chunks: []engram.ChunkID{1, 2, 3}}))
	require.NoError(t, s.PutFile(engram.FileEntry{Path: "a.bin", IsText: false, Size: 20, Chunks: []engram.ChunkID{9}}))

	got, err := s.GetFile("a.bin")
	require.NoError(t, err)
	assert.Equal(t, []engram.ChunkID{9}, got.Chunks)
	assert.Equal(t, uint64(20), got.Size)
}

func TestManifestStore_PutManifestThenListFiles(t *testing.T) {
	s := openTestManifestStore(t)

	m := engram.NewManifest()
	m.AddFile(engram.FileEntry{Path: "src/a.go", IsText: true, Size: 5, Chunks: []engram.ChunkID{1}})
	m.AddFile(engram.FileEntry{Path: "src/b.go", IsText: true, Size: 6, Chunks: []engram.ChunkID{2}})
	m.AddFile(engram.FileEntry{Path: "docs/readme.md", IsText: true, Size: 7, Chunks: []engram.ChunkID{3}})
	require.NoError(t, s.PutManifest(m))

	paths, err := s.ListFiles("src/")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.go", "src/b.go"}, paths)

	all, err := s.ListFiles("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestManifestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")

	s1, err := OpenManifestStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.PutFile(engram.FileEntry{Path: "x.txt", IsText: true, Size: 1, Chunks: []engram.ChunkID{1}}))
	require.NoError(t, s1.Close())

	s2, err := OpenManifestStore(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetFile("x.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Size)
}
