package memory

import (
	"sync"

	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure WriteLock implements the interface.
var _ driven.WriteLock = (*WriteLock)(nil)

// WriteLock is an in-process driven.WriteLock.
type WriteLock struct {
	mu   sync.Mutex
	held bool
}

// NewWriteLock creates an unlocked lock.
func NewWriteLock() *WriteLock {
	return &WriteLock{}
}

// TryLock acquires the lock if it is free.
func (l *WriteLock) TryLock() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

// Unlock releases the lock.
func (l *WriteLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}

// Held reports whether the lock is currently held.
func (l *WriteLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}
