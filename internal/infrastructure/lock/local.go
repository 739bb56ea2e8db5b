package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

// LocalLock implements port.SaveLock for a single process
type LocalLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLock creates an in-process save lock
func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]struct{})}
}

// TryLock acquires key without waiting
func (l *LocalLock) TryLock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, fmt.Errorf("%w: %s", port.ErrLockHeld, key)
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

var _ port.SaveLock = (*LocalLock)(nil)
