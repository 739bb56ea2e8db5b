package port

import (
	"context"
	"errors"
)

// ErrLockHeld is returned when another save of the same record is running
var ErrLockHeld = errors.New("save already in progress")

// SaveLock allows at most one in-flight save per record
type SaveLock interface {
	// TryLock acquires the lock for key without waiting. The returned
	// function releases it.
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}
