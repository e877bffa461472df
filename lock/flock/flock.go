package flock

import (
	"context"
	"fmt"

	"github.com/gofrs/flock"

	"github.com/rohitnair11/Virtualization/lock"
)

// compile-time interface check.
var _ lock.Locker = (*Lock)(nil)

// Lock is a cross-process advisory lock on a file, via flock(2).
// The lock file only coordinates processes and carries no data.
type Lock struct {
	path string
	fl   *flock.Flock
}

// New creates a Lock for the given path. Nothing is opened until TryLock.
func New(path string) *Lock {
	return &Lock{path: path, fl: flock.New(path)}
}

// TryLock attempts a non-blocking acquisition.
// Returns (false, nil) if another process holds the lock.
func (l *Lock) TryLock(_ context.Context) (bool, error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("try flock %s: %w", l.path, err)
	}
	return ok, nil
}

// Unlock releases the lock. The file is left in place: unlinking it would let
// a waiter lock the stale inode while a newcomer locks a fresh one.
func (l *Lock) Unlock(_ context.Context) error {
	if !l.fl.Locked() {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release flock %s: %w", l.path, err)
	}
	return nil
}
