package reversible

import (
	"crypto/sha256"
	"encoding/binary"
)

// pathHash32 returns the first four bytes of SHA-256(path) read as a
// little-endian uint32, the path-derived seed every shift in this package
// is built from.
func pathHash32(path string) uint32 {
	sum := sha256.Sum256([]byte(path))
	return binary.LittleEndian.Uint32(sum[:4])
}

// pathShift derives the chunk-level shift from a path and config: the
// path hash modulo MaxPathDepth, scaled by BaseShift.
func pathShift(path string, cfg Config) uint32 {
	if cfg.MaxPathDepth == 0 {
		return 0
	}
	return (pathHash32(path) % cfg.MaxPathDepth) * cfg.BaseShift
}

// subBlockShift derives the per-sub-block shift for sub-block index i out
// of numBlocks total, built on top of the chunk-level path shift.
func subBlockShift(path string, cfg Config, i, numBlocks int) uint32 {
	base := pathShift(path, cfg)
	if numBlocks <= 0 {
		return base
	}
	return base + uint32(i)*cfg.BaseShift/uint32(numBlocks)
}
