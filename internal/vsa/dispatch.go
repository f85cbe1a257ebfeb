package vsa

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// wideWordThreshold is the lane count at or above which BitslicedVector's
// kernels route through the word-wise bit-plane path, gated by the detected
// CPU features below. Under it they use the lane-by-lane scalar path,
// which is cheap enough at these sizes that the word-wise path's fixed
// overhead isn't worth paying and which stays authoritative for
// correctness: dispatch_test.go cross-checks both paths against each
// other on random inputs.
const wideWordThreshold = 512

var (
	simdDetectOnce sync.Once
	hasAVX2        atomic.Bool
	hasAVX512F     atomic.Bool
)

// detectSIMD populates hasAVX2/hasAVX512F exactly once per process.
func detectSIMD() {
	simdDetectOnce.Do(func() {
		hasAVX2.Store(cpu.X86.HasAVX2)
		hasAVX512F.Store(cpu.X86.HasAVX512F)
	})
}

// simdAvailable reports whether this process detected a CPU capable of the
// wide-word path. The result is cached in the two atomics above after the
// first call, so steady-state callers pay only an atomic load.
func simdAvailable() bool {
	detectSIMD()
	return hasAVX2.Load() || hasAVX512F.Load()
}

// useWidePath decides, for a BitslicedVector of the given dimension,
// whether Bind/Bundle/Cosine should route through the word-wise bit-plane
// path rather than the lane-by-lane scalar one. Both paths agree
// bit-for-bit by construction; this only picks which one runs.
func useWidePath(dim uint32) bool {
	return dim >= wideWordThreshold && simdAvailable()
}
