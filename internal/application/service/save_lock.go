package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

type heldLockKey struct{}

// AcquireSaveLock takes the record lock for key and returns a context that
// tells Save the caller already holds it, so a sequence of saves runs under
// one lock. A nil lock leaves saves unguarded.
func AcquireSaveLock(ctx context.Context, lock port.SaveLock, key string) (context.Context, func(), error) {
	if lockHeld(ctx) {
		return ctx, func() {}, nil
	}
	if lock == nil {
		return ctx, func() {}, nil
	}

	unlock, err := lock.TryLock(ctx, key)
	if err != nil {
		if errors.Is(err, port.ErrLockHeld) {
			return ctx, nil, fmt.Errorf("%w: %s: %w", ErrSaveInProgress, key, err)
		}
		return ctx, nil, fmt.Errorf("failed to acquire save lock: %w", err)
	}
	return context.WithValue(ctx, heldLockKey{}, key), unlock, nil
}

func lockHeld(ctx context.Context) bool {
	_, ok := ctx.Value(heldLockKey{}).(string)
	return ok
}
