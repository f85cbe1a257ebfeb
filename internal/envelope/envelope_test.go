package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapUnwrap_RoundTrips(t *testing.T) {
	payload := []byte("hello engram bytes")
	wrapped := Wrap(KindEngramBincode, payload)

	got, legacy, err := UnwrapAuto(KindEngramBincode, wrapped)
	require.NoError(t, err)
	assert.False(t, legacy)
	assert.Equal(t, payload, got)
}

func TestUnwrapAuto_EmptyPayloadRoundTrips(t *testing.T) {
	wrapped := Wrap(KindCorrections, nil)
	got, legacy, err := UnwrapAuto(KindCorrections, wrapped)
	require.NoError(t, err)
	assert.False(t, legacy)
	assert.Empty(t, got)
}

func TestUnwrapAuto_WrongKindRejected(t *testing.T) {
	wrapped := Wrap(KindEngramBincode, []byte("x"))
	_, _, err := UnwrapAuto(KindCorrections, wrapped)
	assert.Error(t, err)
}

func TestUnwrapAuto_UnknownCodecRejected(t *testing.T) {
	wrapped := Wrap(KindEngramBincode, []byte("x"))
	wrapped[5] = 0xFF
	_, _, err := UnwrapAuto(KindEngramBincode, wrapped)
	assert.Error(t, err)
}

func TestUnwrapAuto_LengthMismatchRejected(t *testing.T) {
	wrapped := Wrap(KindEngramBincode, []byte("hello"))
	wrapped = append(wrapped, 'X') // body now longer than header says
	_, _, err := UnwrapAuto(KindEngramBincode, wrapped)
	assert.Error(t, err)
}

func TestUnwrapAuto_TruncatedMagicPrefixIsLegacy(t *testing.T) {
	data := []byte("EDN1short")
	got, legacy, err := UnwrapAuto(KindEngramBincode, data)
	require.NoError(t, err)
	assert.True(t, legacy)
	assert.Equal(t, data, got)
}

func TestUnwrapAuto_PreEnvelopeRawBytesIsLegacy(t *testing.T) {
	data := []byte(`{"files": []}`)
	got, legacy, err := UnwrapAuto(KindEngramBincode, data)
	require.NoError(t, err)
	assert.True(t, legacy)
	assert.Equal(t, data, got)
}

func TestUnwrapAuto_UnknownKindRejected(t *testing.T) {
	wrapped := Wrap(KindEngramBincode, []byte("x"))
	wrapped[4] = 0xFE
	_, _, err := UnwrapAuto(KindEngramBincode, wrapped)
	assert.Error(t, err)
}
