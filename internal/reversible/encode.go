package reversible

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/amn-labs/holofs/internal/vsa"
)

// numSubBlocks returns how many BlockSize-wide sub-blocks data splits
// into (the last one possibly short).
func numSubBlocks(dataLen, blockSize int) int {
	if dataLen == 0 {
		return 0
	}
	if blockSize <= 0 {
		blockSize = 1
	}
	return (dataLen + blockSize - 1) / blockSize
}

// EncodeChunk encodes a whole chunk as the N-ary conflict-cancel bundle of
// its per-sub-block vectors. Empty input maps to the empty vector. The
// result is deterministic given (data, cfg, path, dim).
func EncodeChunk(data []byte, cfg Config, path string, dim uint32) *vsa.SparseVector {
	if len(data) == 0 {
		return vsa.NewSparseVector(dim)
	}
	n := numSubBlocks(len(data), cfg.BlockSize)
	subVecs := make([]*vsa.SparseVector, 0, n)
	for i := 0; i < n; i++ {
		start := i * cfg.BlockSize
		end := start + cfg.BlockSize
		if end > len(data) {
			end = len(data)
		}
		shift := subBlockShift(path, cfg, i, n)
		subVecs = append(subVecs, encodeSubBlock(data[start:end], shift, dim))
	}
	return vsa.BundleHybridMany(subVecs)
}

// encodeSubBlock maps each byte in a sub-block to a lane per spec.md
// §4.7: lane = (j + shift) mod D, then (lane + low7(b)) mod D goes to pos
// if b < 128, to neg otherwise. Lanes that land in both pos and neg
// (shared lane-space collisions, expected when blocks are small relative
// to D) are conflict-cancelled, the same rule Bundle applies, so the
// resulting vector always satisfies the pos/neg disjointness invariant.
func encodeSubBlock(sub []byte, shift, dim uint32) *vsa.SparseVector {
	posRaw := make([]uint32, 0, len(sub))
	negRaw := make([]uint32, 0, len(sub))
	for j, b := range sub {
		lane := (uint32(j) + shift) % dim
		if b < 128 {
			posRaw = append(posRaw, (lane+uint32(b))%dim)
		} else {
			negRaw = append(negRaw, (lane+uint32(b&0x7F))%dim)
		}
	}
	posBM := roaring.BitmapOf(posRaw...)
	negBM := roaring.BitmapOf(negRaw...)
	finalPos := roaring.AndNot(posBM, negBM)
	finalNeg := roaring.AndNot(negBM, posBM)
	return vsa.NewSparseVectorFromIndices(dim, finalPos.ToArray(), finalNeg.ToArray())
}
