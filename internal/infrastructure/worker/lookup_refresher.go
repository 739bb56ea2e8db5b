package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/dispatcher"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/event"
)

// DefaultLookupSchedule refreshes the lookups every 30 minutes
const DefaultLookupSchedule = "*/30 * * * *"

// LookupRefresher reloads suppliers, cost centers and operational classes
// on a cron schedule and announces each snapshot.
type LookupRefresher struct {
	lookups    service.LookupService
	dispatcher dispatcher.Dispatcher
	schedule   cron.Schedule
	spec       string
	location   *time.Location
	logger     *zap.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewLookupRefresher validates the schedule, a standard 5 field cron
// expression or a descriptor such as @hourly. d may be nil.
func NewLookupRefresher(lookups service.LookupService, d dispatcher.Dispatcher, spec string, loc *time.Location, logger *zap.Logger) (*LookupRefresher, error) {
	if spec == "" {
		spec = DefaultLookupSchedule
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid lookup schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LookupRefresher{
		lookups:    lookups,
		dispatcher: d,
		schedule:   schedule,
		spec:       spec,
		location:   loc,
		logger:     logger,
	}, nil
}

// Name returns the worker name
func (r *LookupRefresher) Name() string {
	return "lookup-refresher"
}

// Start loads the lookups once in the background and schedules the
// following refreshes
func (r *LookupRefresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return fmt.Errorf("%s already started", r.Name())
	}

	c := cron.New(cron.WithLocation(r.location))
	c.Schedule(r.schedule, cron.FuncJob(func() {
		_ = r.RefreshNow(ctx)
	}))
	c.Start()
	r.cron = c

	go func() {
		_ = r.RefreshNow(ctx)
	}()

	r.logger.Info("Lookup refresh scheduled", zap.String("schedule", r.spec))
	return nil
}

// Stop waits for a running refresh to finish
func (r *LookupRefresher) Stop() error {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	return nil
}

// RefreshNow reloads the lookups and emits lookups.refreshed
func (r *LookupRefresher) RefreshNow(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	start := time.Now()
	snapshot, err := r.lookups.Refresh(ctx)
	if err != nil {
		r.logger.Error("Lookup refresh failed", zap.Error(err))
		return err
	}

	fields := []zap.Field{
		zap.Int(entity.LookupSuppliers, len(snapshot.Suppliers)),
		zap.Int(entity.LookupCostCenters, len(snapshot.CostCenters)),
		zap.Int(entity.LookupOperationalClasses, len(snapshot.OperationalClasses)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if !snapshot.Complete() {
		r.logger.Warn("Lookups partially refreshed", append(fields, zap.Any("errors", snapshot.Errors))...)
	} else {
		r.logger.Info("Lookups refreshed", fields...)
	}

	if r.dispatcher != nil {
		r.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeLookupsRefreshed, "", "", map[string]interface{}{
			event.KeyCounts: map[string]int{
				entity.LookupSuppliers:          len(snapshot.Suppliers),
				entity.LookupCostCenters:        len(snapshot.CostCenters),
				entity.LookupOperationalClasses: len(snapshot.OperationalClasses),
			},
			event.KeyComplete: snapshot.Complete(),
		}))
	}
	return nil
}

// Next returns the next scheduled refresh after t
func (r *LookupRefresher) Next(t time.Time) time.Time {
	return r.schedule.Next(t.In(r.location))
}
