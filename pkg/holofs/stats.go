package holofs

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/amn-labs/holofs/internal/correction"
	"github.com/amn-labs/holofs/internal/engram"
)

// Stats summarises one engram for cmd/holofs stats: how much it holds
// and how its per-chunk corrections broke down (None/Diff/Exact), the
// signal for whether the reversible encoding is earning its keep on
// this corpus (mostly None/Diff is good; mostly Exact means the
// encoding isn't fitting the data well).
type Stats struct {
	Files        int
	TotalChunks  uint32
	OriginalSize uint64
	Corrections  correction.Stats
}

func statsOf(e *engram.Engram, manifest *engram.Manifest) *Stats {
	var size uint64
	for _, f := range manifest.Files {
		size += f.Size
	}
	return &Stats{
		Files:        len(manifest.Files),
		TotalChunks:  manifest.TotalChunks,
		OriginalSize: size,
		Corrections:  e.Corrections.Stats(),
	}
}

// String renders a one-line human-readable summary, using
// github.com/dustin/go-humanize for the byte count.
func (s *Stats) String() string {
	return fmt.Sprintf(
		"%d files, %s, %d chunks (none=%d diff=%d exact=%d)",
		s.Files, humanize.Bytes(s.OriginalSize), s.TotalChunks,
		s.Corrections.None, s.Corrections.Diff, s.Corrections.Exact,
	)
}
