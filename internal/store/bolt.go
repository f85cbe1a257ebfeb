package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"go.etcd.io/bbolt"

	"github.com/amn-labs/holofs/internal/engram"
	"github.com/amn-labs/holofs/internal/vsa"
)

var codebookBucket = []byte("codebook")

// BoltStore is a disk-backed retrieval.VectorStore for engrams too large
// to hold resident, mirroring the teacher's "memory-mapped read-only at
// extract time" codebook/correction persistence contract.
type BoltStore struct {
	db  *bbolt.DB
	dim uint32
}

// OpenBoltStore opens (creating if necessary) a bbolt database at path for
// a codebook of the given dimension.
func OpenBoltStore(path string, dim uint32) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(codebookBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: initialising %s: %w", path, err)
	}
	return &BoltStore{db: db, dim: dim}, nil
}

// Put stores a single chunk's vector, keyed by its chunk id.
func (s *BoltStore) Put(id engram.ChunkID, v *vsa.SparseVector) error {
	if v.Dim() != s.dim {
		return ErrDimensionMismatch{Expected: s.dim, Got: v.Dim()}
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(codebookBucket).Put(encodeChunkID(id), encodeSparseVector(v))
	})
}

// PutAll stores every vector in a codebook in a single transaction.
func (s *BoltStore) PutAll(cb *engram.Codebook) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(codebookBucket)
		for _, id := range cb.IDs() {
			v, err := cb.Get(id)
			if err != nil {
				return err
			}
			if err := bucket.Put(encodeChunkID(id), encodeSparseVector(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get implements retrieval.VectorStore.
func (s *BoltStore) Get(id engram.ChunkID) (*vsa.SparseVector, error) {
	var v *vsa.SparseVector
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(codebookBucket).Get(encodeChunkID(id))
		if raw == nil {
			return &engram.MissingVectorError{ChunkID: id}
		}
		decoded, err := decodeSparseVector(raw, s.dim)
		if err != nil {
			return err
		}
		v = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func encodeChunkID(id engram.ChunkID) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(id))
	return buf
}

// encodeSparseVector serialises a SparseVector as dim, pos count, pos
// indices, neg count, neg indices, all little-endian uint32.
func encodeSparseVector(v *vsa.SparseVector) []byte {
	pos := v.PosIndices()
	neg := v.NegIndices()

	var buf bytes.Buffer
	buf.Grow(4 + 4 + len(pos)*4 + 4 + len(neg)*4)

	writeUint32(&buf, v.Dim())
	writeUint32(&buf, uint32(len(pos)))
	for _, idx := range pos {
		writeUint32(&buf, idx)
	}
	writeUint32(&buf, uint32(len(neg)))
	for _, idx := range neg {
		writeUint32(&buf, idx)
	}
	return buf.Bytes()
}

func decodeSparseVector(data []byte, expectedDim uint32) (*vsa.SparseVector, error) {
	r := bytes.NewReader(data)
	dim, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("store: decoding vector: %w", err)
	}
	if dim != expectedDim {
		return nil, ErrDimensionMismatch{Expected: expectedDim, Got: dim}
	}

	posLen, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("store: decoding vector: %w", err)
	}
	pos := make([]uint32, posLen)
	for i := range pos {
		pos[i], err = readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("store: decoding vector: %w", err)
		}
	}

	negLen, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("store: decoding vector: %w", err)
	}
	neg := make([]uint32, negLen)
	for i := range neg {
		neg[i], err = readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("store: decoding vector: %w", err)
		}
	}

	return vsa.NewSparseVectorFromIndices(dim, pos, neg), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}
