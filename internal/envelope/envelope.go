// Package envelope implements the tagged binary container every
// persisted holofs artifact is wrapped in, plus the legacy-raw-bytes
// fallback that keeps pre-envelope files readable.
package envelope

import (
	"encoding/binary"
	"fmt"
)

// magic identifies an envelope-wrapped payload.
var magic = [4]byte{'E', 'D', 'N', '1'}

// headerSize is the fixed envelope header width in bytes.
const headerSize = 16

// Kind identifies what an envelope's payload contains.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindEngramBincode
	KindCorrections
	KindHierarchicalManifest
)

// Codec identifies how an envelope's payload bytes are encoded.
type Codec uint8

const (
	// CodecNone stores the payload uncompressed, verbatim.
	CodecNone Codec = iota
)

// Envelope is a decoded artifact header plus its payload.
type Envelope struct {
	Kind    Kind
	Codec   Codec
	Payload []byte
}

// Wrap serialises payload under the given kind using CodecNone.
func Wrap(kind Kind, payload []byte) []byte {
	out := make([]byte, headerSize+len(payload))
	copy(out[0:4], magic[:])
	out[4] = byte(kind)
	out[5] = byte(CodecNone)
	out[6], out[7] = 0, 0
	binary.LittleEndian.PutUint64(out[8:16], uint64(len(payload)))
	copy(out[16:], payload)
	return out
}

// UnwrapError reports why UnwrapAuto rejected an artifact.
type UnwrapError struct {
	Reason string
}

func (e *UnwrapError) Error() string { return "envelope: " + e.Reason }

// UnwrapAuto decodes bytes as an envelope, rejecting the wrong kind,
// unknown kinds, unknown codecs, and length mismatches under CodecNone.
// A prefix shorter than the header that nonetheless begins with the
// magic is treated as a truncated/legacy artifact and returned as-is
// (LegacyRaw == true) so pre-envelope files stay readable.
func UnwrapAuto(expectedKind Kind, data []byte) (payload []byte, legacyRaw bool, err error) {
	// Too short to hold a full header, or no magic at all: treat as a
	// pre-envelope legacy artifact rather than erroring.
	if len(data) < headerSize || string(data[0:4]) != string(magic[:]) {
		return data, true, nil
	}
	kind := Kind(data[4])
	if kind == KindUnknown || kind >= kindSentinel {
		return nil, false, &UnwrapError{Reason: fmt.Sprintf("unknown payload kind %d", kind)}
	}
	if kind != expectedKind {
		return nil, false, &UnwrapError{Reason: fmt.Sprintf("expected kind %d, got %d", expectedKind, kind)}
	}
	codec := Codec(data[5])
	if codec != CodecNone {
		return nil, false, &UnwrapError{Reason: fmt.Sprintf("unknown codec %d", codec)}
	}
	length := binary.LittleEndian.Uint64(data[8:16])
	body := data[headerSize:]
	if uint64(len(body)) != length {
		return nil, false, &UnwrapError{Reason: fmt.Sprintf("length mismatch: header says %d, got %d", length, len(body))}
	}
	return body, false, nil
}

// kindSentinel is one past the last valid Kind value.
const kindSentinel = KindHierarchicalManifest + 1
