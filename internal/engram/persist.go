package engram

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/amn-labs/holofs/internal/correction"
	"github.com/amn-labs/holofs/internal/envelope"
	"github.com/amn-labs/holofs/internal/vsa"
)

// codebookEntry is the gob-friendly wire shape of one codebook vector:
// SparseVector's roaring bitmaps aren't gob-encodable directly, so each
// vector is flattened to its pos/neg index lists and rebuilt on load.
type codebookEntry struct {
	ID  ChunkID
	Pos []uint32
	Neg []uint32
}

type codebookWire struct {
	Dim     uint32
	Entries []codebookEntry
}

// MarshalCodebook serialises a codebook to an envelope-wrapped gob
// payload, suitable for writing via internal/atomicfile.WriteFile.
func MarshalCodebook(cb *Codebook) ([]byte, error) {
	wire := codebookWire{Dim: cb.Dim()}
	for _, id := range cb.IDs() {
		v, err := cb.Get(id)
		if err != nil {
			return nil, err
		}
		wire.Entries = append(wire.Entries, codebookEntry{ID: id, Pos: v.PosIndices(), Neg: v.NegIndices()})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, fmt.Errorf("engram: encoding codebook: %w", err)
	}
	return envelope.Wrap(envelope.KindEngramBincode, buf.Bytes()), nil
}

// UnmarshalCodebook reverses MarshalCodebook.
func UnmarshalCodebook(data []byte) (*Codebook, error) {
	payload, _, err := envelope.UnwrapAuto(envelope.KindEngramBincode, data)
	if err != nil {
		return nil, fmt.Errorf("engram: unwrapping codebook: %w", err)
	}

	var wire codebookWire
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("engram: decoding codebook: %w", err)
	}

	cb := NewCodebook(wire.Dim)
	for _, e := range wire.Entries {
		cb.Insert(e.ID, vsa.NewSparseVectorFromIndices(wire.Dim, e.Pos, e.Neg))
	}
	return cb, nil
}

type correctionWire struct {
	ID         ChunkID
	Correction correction.Correction
}

// MarshalCorrections serialises a correction store to an
// envelope-wrapped gob payload.
func MarshalCorrections(s *correction.Store) ([]byte, error) {
	entries := s.Entries()
	wire := make([]correctionWire, 0, len(entries))
	for id, c := range entries {
		wire = append(wire, correctionWire{ID: id, Correction: c})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, fmt.Errorf("engram: encoding corrections: %w", err)
	}
	return envelope.Wrap(envelope.KindCorrections, buf.Bytes()), nil
}

// UnmarshalCorrections reverses MarshalCorrections.
func UnmarshalCorrections(data []byte) (*correction.Store, error) {
	payload, _, err := envelope.UnwrapAuto(envelope.KindCorrections, data)
	if err != nil {
		return nil, fmt.Errorf("engram: unwrapping corrections: %w", err)
	}

	var wire []correctionWire
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("engram: decoding corrections: %w", err)
	}

	store := correction.NewStore()
	for _, e := range wire {
		store.Set(e.ID, e.Correction)
	}
	return store, nil
}

// Marshal serialises the full engram (codebook and corrections) as two
// separate envelope-wrapped payloads, returned in that order. Dim is not
// separately serialised: it is recovered from the codebook payload.
func (e *Engram) Marshal() (codebook []byte, corrections []byte, err error) {
	codebook, err = MarshalCodebook(e.Codebook)
	if err != nil {
		return nil, nil, err
	}
	corrections, err = MarshalCorrections(e.Corrections)
	if err != nil {
		return nil, nil, err
	}
	return codebook, corrections, nil
}

// Unmarshal rebuilds an Engram from the two payloads Marshal produced.
func Unmarshal(codebookData, correctionsData []byte) (*Engram, error) {
	cb, err := UnmarshalCodebook(codebookData)
	if err != nil {
		return nil, err
	}
	corrections, err := UnmarshalCorrections(correctionsData)
	if err != nil {
		return nil, err
	}
	return &Engram{Dim: cb.Dim(), Codebook: cb, Corrections: corrections}, nil
}
