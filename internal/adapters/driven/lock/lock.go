// Package lock provides the cross-process writer lock that serialises
// index rebuilds.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure FileLock implements the interface.
var _ driven.WriteLock = (*FileLock)(nil)

// FileName is the lock file created next to the index.
const FileName = ".index.lock"

// FileLock is an advisory lock on <dir>/.index.lock held by at most one
// process at a time.
type FileLock struct {
	mu     sync.Mutex
	path   string
	flock  *flock.Flock
	locked bool
}

// NewFileLock creates a lock for the index stored in dir.
func NewFileLock(dir string) *FileLock {
	lockPath := filepath.Join(dir, FileName)
	return &FileLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// ForIndex creates the lock guarding the index file at indexPath.
func ForIndex(indexPath string) *FileLock {
	return NewFileLock(filepath.Dir(indexPath))
}

// TryLock attempts to acquire the lock without blocking.
// Returns false when another holder has it.
func (l *FileLock) TryLock() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locked {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return false, fmt.Errorf("create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", l.path, err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. Unlocking an unlocked FileLock is a no-op.
func (l *FileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}
