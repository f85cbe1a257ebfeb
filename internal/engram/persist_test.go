package engram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amn-labs/holofs/internal/reversible"
)

func TestEngram_MarshalUnmarshalRoundTrips(t *testing.T) {
	e := New(testDim)
	cfg := reversible.Default
	entry := ingestOneFile(t, e, "main.go", []byte("package main\n\nfunc main() {}\n"), 16, cfg)

	codebookData, correctionsData, err := e.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(codebookData, correctionsData)
	require.NoError(t, err)
	assert.Equal(t, e.Dim, got.Dim)
	assert.Equal(t, e.Codebook.Len(), got.Codebook.Len())

	out, err := got.ExtractFile(entry, cfg, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte("package main\n\nfunc main() {}\n"), out)
}

func TestUnmarshalCodebook_RejectsWrongKind(t *testing.T) {
	e := New(testDim)
	_, correctionsData, err := e.Marshal()
	require.NoError(t, err)

	_, err = UnmarshalCodebook(correctionsData)
	assert.Error(t, err)
}
