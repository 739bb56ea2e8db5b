package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/dispatcher"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/event"
)

type mockLookupService struct {
	refreshFunc func(ctx context.Context) (*entity.Lookups, error)
	calls       atomic.Int32
}

func (m *mockLookupService) Refresh(ctx context.Context) (*entity.Lookups, error) {
	m.calls.Add(1)
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx)
	}
	return entity.NewLookups(), nil
}

func (m *mockLookupService) Current(ctx context.Context) (*entity.Lookups, error) {
	return m.Refresh(ctx)
}

func (m *mockLookupService) SearchAll(ctx context.Context, report, criteria string) ([]port.Row, error) {
	return nil, nil
}

type mockWorker struct {
	name    string
	startFn func(ctx context.Context) error
	stopErr error
	started bool
	stopped bool
}

func (w *mockWorker) Start(ctx context.Context) error {
	w.started = true
	if w.startFn != nil {
		return w.startFn(ctx)
	}
	return nil
}

func (w *mockWorker) Stop() error {
	w.stopped = true
	return w.stopErr
}

func (w *mockWorker) Name() string { return w.name }

func TestWorkerManager_Lifecycle(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	ok := &mockWorker{name: "ok"}
	broken := &mockWorker{name: "broken", startFn: func(context.Context) error { return errors.New("boom") }}
	m.Register(ok)
	m.Register(broken)
	assert.Equal(t, 2, m.GetWorkerCount())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.True(t, ok.started)
	assert.True(t, broken.started)
	assert.Equal(t, map[string]string{"broken": "boom"}, m.Failed())

	assert.Error(t, m.StartAll(context.Background()), "second start must fail")

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	assert.True(t, ok.stopped)
	assert.False(t, broken.stopped, "a worker that never started is not stopped")

	// stopping twice is a no-op
	assert.NoError(t, m.StopAll())
}

func TestWorkerManager_StopErrors(t *testing.T) {
	m := NewWorkerManager(nil)
	m.Register(&mockWorker{name: "a", stopErr: errors.New("stuck")})
	m.Register(&mockWorker{name: "b"})

	require.NoError(t, m.StartAll(context.Background()))
	err := m.StopAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: stuck")
}

func TestWorkerManager_CancelsContext(t *testing.T) {
	m := NewWorkerManager(nil)
	var workerCtx context.Context
	m.Register(&mockWorker{name: "ctx", startFn: func(ctx context.Context) error {
		workerCtx = ctx
		return nil
	}})

	require.NoError(t, m.StartAll(context.Background()))
	require.NoError(t, m.StopAll())
	assert.Error(t, workerCtx.Err())
}

func TestNewLookupRefresher_Schedule(t *testing.T) {
	_, err := NewLookupRefresher(&mockLookupService{}, nil, "not a schedule", nil, nil)
	assert.Error(t, err)

	r, err := NewLookupRefresher(&mockLookupService{}, nil, "", time.UTC, nil)
	require.NoError(t, err)
	from := time.Date(2024, time.May, 1, 10, 7, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC), r.Next(from))

	hourly, err := NewLookupRefresher(&mockLookupService{}, nil, "@hourly", time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.May, 1, 11, 0, 0, 0, time.UTC), hourly.Next(from))
}

func TestLookupRefresher_RefreshNowEmitsEvent(t *testing.T) {
	lookups := &mockLookupService{refreshFunc: func(ctx context.Context) (*entity.Lookups, error) {
		l := entity.NewLookups()
		l.Suppliers["1"] = entity.LookupEntry{ID: "1"}
		l.Errors[entity.LookupCostCenters] = "timeout"
		return l, nil
	}}

	d := dispatcher.NewDispatcher()
	var mu sync.Mutex
	var got *event.Event
	d.Subscribe(event.TypeLookupsRefreshed, "capture", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		got = evt
		mu.Unlock()
		return nil
	})

	r, err := NewLookupRefresher(lookups, d, "@hourly", nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.RefreshNow(context.Background()))
	require.NoError(t, d.Close())

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	assert.Equal(t, false, got.Payload[event.KeyComplete])
	counts, ok := got.Payload[event.KeyCounts].(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 1, counts[entity.LookupSuppliers])
}

func TestLookupRefresher_RefreshFailure(t *testing.T) {
	lookups := &mockLookupService{refreshFunc: func(ctx context.Context) (*entity.Lookups, error) {
		return entity.NewLookups(), errors.New("all lookups failed")
	}}
	r, err := NewLookupRefresher(lookups, nil, "@hourly", nil, nil)
	require.NoError(t, err)

	assert.Error(t, r.RefreshNow(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.RefreshNow(ctx), context.Canceled)
	assert.Equal(t, int32(1), lookups.calls.Load())
}

func TestLookupRefresher_StartLoadsOnce(t *testing.T) {
	lookups := &mockLookupService{}
	r, err := NewLookupRefresher(lookups, nil, "@hourly", nil, nil)
	require.NoError(t, err)

	m := NewWorkerManager(nil)
	m.Register(r)
	require.NoError(t, m.StartAll(context.Background()))

	assert.Eventually(t, func() bool { return lookups.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	assert.Error(t, r.Start(context.Background()), "already started")

	require.NoError(t, m.StopAll())
}
