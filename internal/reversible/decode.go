package reversible

import "github.com/amn-labs/holofs/internal/vsa"

// maxDecodeOffset bounds the offset scan in decodeByte: bytes only ever
// contribute offsets in [0, 128) during encoding (b or b&0x7F), so no
// exact decode can require scanning further.
const maxDecodeOffset = 128

// DecodeChunk is the raw (lossy) inverse of EncodeChunk: it reconstructs
// chunkLen bytes from an encoded vector using the same per-sub-block
// shifts the encoder used. It is lossy whenever sub-blocks collide in the
// shared lane space or a bundle cancellation erased a lane; the
// correction store (internal/correction) is what makes the full
// encode/decode round trip bit-exact.
func DecodeChunk(v *vsa.SparseVector, cfg Config, path string, dim uint32, chunkLen int) []byte {
	if chunkLen == 0 {
		return nil
	}
	n := numSubBlocks(chunkLen, cfg.BlockSize)
	out := make([]byte, 0, chunkLen)
	for i := 0; i < n; i++ {
		start := i * cfg.BlockSize
		end := start + cfg.BlockSize
		if end > chunkLen {
			end = chunkLen
		}
		shift := subBlockShift(path, cfg, i, n)
		for j := 0; j < end-start; j++ {
			out = append(out, decodeByte(v, shift, dim, j))
		}
	}
	return out
}

// decodeByte scans offsets [0, maxDecodeOffset) for sub-block-local index
// j, returning the first offset whose lane is set in pos or neg. Ties
// (same offset present in both sets, which should not occur given the
// disjointness invariant) resolve to pos. A position with no match in
// range decodes to 0; it is expected to be repaired by the correction
// store.
func decodeByte(v *vsa.SparseVector, shift, dim uint32, j int) byte {
	for o := uint32(0); o < maxDecodeOffset; o++ {
		lane := (uint32(j) + shift + o) % dim
		if v.At(lane).IsZero() {
			continue
		}
		if v.At(lane) > 0 {
			return byte(o)
		}
		return byte(o) | 0x80
	}
	return 0
}
