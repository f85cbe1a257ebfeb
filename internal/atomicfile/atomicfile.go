// Package atomicfile provides crash-safe file writes and a cross-process
// engram-directory lock, so a concurrent ingest never leaves a manifest,
// codebook, or correction store half-written on disk.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// WriteFile writes data to path via a temp file in the same directory
// followed by a rename, so a reader never observes a partially written
// file and a crash mid-write leaves the previous contents intact.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("atomicfile: creating %s: %w", dir, err)
		}
	}
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("atomicfile: writing %s: %w", path, err)
	}
	return nil
}
