// Package buildlock provides cross-process file locking for the
// indexer's output stem, so two concurrent "go run satire-index"
// invocations writing the same stem don't interleave their .tmp
// writes.
package buildlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// StemLock guards a single output stem during a build.
// The lock file sits alongside the stem as <stem>.lock and is never
// treated as part of the index itself.
type StemLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewStemLock creates a lock for the given output stem.
func NewStemLock(outputStem string) *StemLock {
	lockPath := outputStem + ".lock"
	return &StemLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// Lock acquires an exclusive lock, blocking until it is available.
func (l *StemLock) Lock() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire build lock: %w", err)
	}
	l.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking. Returns
// false, nil if another build already holds it.
func (l *StemLock) TryLock() (bool, error) {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire build lock: %w", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. Safe to call multiple times or on a lock
// that was never acquired.
func (l *StemLock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		l.locked = false
		return fmt.Errorf("failed to release build lock: %w", err)
	}
	l.locked = false
	return nil
}

// Path returns the path to the lock file.
func (l *StemLock) Path() string {
	return l.path
}

// IsLocked returns true if this StemLock currently holds the lock.
func (l *StemLock) IsLocked() bool {
	return l.locked
}
