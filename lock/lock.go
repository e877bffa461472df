package lock

import "context"

// Locker is a non-blocking exclusion guard. A caller that loses the race
// reports busy instead of queueing behind the holder.
type Locker interface {
	// TryLock returns (false, nil) when someone else holds the lock.
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}
