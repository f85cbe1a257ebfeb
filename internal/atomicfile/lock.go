package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// EngramLock is a cross-process exclusive lock over an engram directory,
// so two ingest/extract invocations against the same directory never
// interleave their writes.
type EngramLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewEngramLock returns a lock for dir's ".holofs.lock" file.
func NewEngramLock(dir string) *EngramLock {
	path := filepath.Join(dir, ".holofs.lock")
	return &EngramLock{path: path, flock: flock.New(path)}
}

// Lock acquires the lock, blocking until it is available.
func (l *EngramLock) Lock() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("atomicfile: creating %s: %w", dir, err)
		}
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("atomicfile: acquiring lock on %s: %w", l.path, err)
	}
	l.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking, reporting
// whether it succeeded.
func (l *EngramLock) TryLock() (bool, error) {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("atomicfile: creating %s: %w", dir, err)
		}
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("atomicfile: acquiring lock on %s: %w", l.path, err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. Safe to call on an unlocked EngramLock.
func (l *EngramLock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("atomicfile: releasing lock on %s: %w", l.path, err)
	}
	l.locked = false
	return nil
}

// Path returns the lock file's path.
func (l *EngramLock) Path() string { return l.path }

// IsLocked reports whether this handle currently holds the lock.
func (l *EngramLock) IsLocked() bool { return l.locked }
