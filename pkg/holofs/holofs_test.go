package holofs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amn-labs/holofs/internal/config"
)

func writeTestTree(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello world, this is a.txt\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("a different file, hello again\n"), 0o644))
}

func TestIngestOpenExtractRoundTrips(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root)
	engramDir := t.TempDir()

	cfg := config.Small
	stats, err := Ingest(context.Background(), root, engramDir, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	assert.Greater(t, stats.TotalChunks, uint32(0))

	h, err := Open(engramDir, &cfg)
	require.NoError(t, err)

	destDir := t.TempDir()
	require.NoError(t, h.Extract(context.Background(), destDir))

	got, err := os.ReadFile(filepath.Join(destDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world, this is a.txt\n", string(got))

	got, err = os.ReadFile(filepath.Join(destDir, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a different file, hello again\n", string(got))
}

func TestHandle_QueryFindsClosestChunk(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root)
	engramDir := t.TempDir()

	cfg := config.Small
	_, err := Ingest(context.Background(), root, engramDir, &cfg)
	require.NoError(t, err)

	h, err := Open(engramDir, &cfg)
	require.NoError(t, err)

	results, err := h.Query("a.txt", "hello world, this is a.txt\n", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.InDelta(t, 1.0, results[0].Cosine, 1e-6)
}

func TestStats_String(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root)
	engramDir := t.TempDir()

	cfg := config.Small
	stats, err := Ingest(context.Background(), root, engramDir, &cfg)
	require.NoError(t, err)
	assert.Contains(t, stats.String(), "2 files")
}
