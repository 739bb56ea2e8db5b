package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/dispatcher"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/workflow"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/worker"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and close in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure
	db    *database.DB
	store port.RecordStore
	blobs port.BlobStore
	lock  port.SaveLock
	redis *redis.Client

	// Application
	services   *ServiceBundle
	dispatcher dispatcher.Dispatcher
	engine     workflow.ActionEngine

	workers *worker.WorkerManager

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// ServiceBundle groups the application services.
type ServiceBundle struct {
	Lookups   service.LookupService
	Loader    service.LoaderService
	Save      service.SaveService
	Validator *service.Validator
	Allocator *allocation.Allocator
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components; call Start for that.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes every component and starts the workers. A failed start
// releases what was already opened.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"record store", c.initStore},
		{"storage", c.initStorage},
		{"save lock", c.initLock},
		{"services", c.initServices},
		{"dispatcher and engine", c.initDispatcherAndEngine},
		{"workers", c.initWorkers},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			c.teardown()
			return fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
		c.logger.Info("Component initialized", zap.String("component", step.name))
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	err := c.teardown()

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		c.logger.Error("Container closed with errors", zap.Error(err))
		return err
	}
	c.logger.Info("Container closed successfully")
	return nil
}

func (c *Container) teardown() error {
	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil && !errors.Is(err, dispatcher.ErrClosed) {
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, h ComponentHealth) {
		status.Components[name] = h
		if !h.Healthy {
			status.Overall = false
		}
	}

	switch {
	case c.store == nil:
		set("record_store", ComponentHealth{Message: "not initialized"})
	case c.db != nil:
		if err := c.db.PingContext(ctx); err != nil {
			set("record_store", ComponentHealth{Message: fmt.Sprintf("ping failed: %v", err)})
		} else {
			set("record_store", ComponentHealth{Healthy: true, Message: c.config.RecordStore.Backend})
		}
	default:
		set("record_store", ComponentHealth{Healthy: true, Message: c.config.RecordStore.Backend})
	}

	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err != nil {
			set("save_lock", ComponentHealth{Message: fmt.Sprintf("ping failed: %v", err)})
		} else {
			set("save_lock", ComponentHealth{Healthy: true, Message: c.config.Lock.Backend})
		}
	} else {
		set("save_lock", ComponentHealth{Healthy: c.lock != nil, Message: c.config.Lock.Backend})
	}

	if c.workers != nil {
		failed := c.workers.Failed()
		msg := fmt.Sprintf("worker count: %d", c.workers.GetWorkerCount())
		if len(failed) > 0 {
			msg = fmt.Sprintf("%s, failed: %v", msg, failed)
		}
		set("workers", ComponentHealth{
			Healthy: c.workers.IsRunning() && len(failed) == 0,
			Message: msg,
		})
	} else {
		set("workers", ComponentHealth{Message: "not initialized"})
	}

	set("dispatcher", ComponentHealth{Healthy: c.dispatcher != nil})

	return status
}

func (c *Container) initStore() error {
	bundle, err := ProvideRecordStore(&c.config.RecordStore, &c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.store = bundle.Store
	c.db = bundle.DB
	return nil
}

func (c *Container) initStorage() error {
	blobs, err := ProvideBlobStore(c.ctx, &c.config.Storage, c.logger.Named("storage"))
	if err != nil {
		return err
	}
	c.blobs = blobs
	return nil
}

func (c *Container) initLock() error {
	bundle, err := ProvideSaveLock(c.ctx, &c.config.Lock, c.logger.Named("lock"))
	if err != nil {
		return err
	}
	c.lock = bundle.Lock
	c.redis = bundle.Redis
	return nil
}

func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Store:      c.store,
		Blobs:      c.blobs,
		Lock:       c.lock,
		Names:      c.config.RecordStore.Names,
		Allocation: c.config.Allocation,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	return nil
}

func (c *Container) initDispatcherAndEngine() error {
	c.dispatcher = ProvideDispatcher(c.logger)

	engine, err := ProvideEngine(&EngineDeps{
		Services:    c.services,
		Dispatcher:  c.dispatcher,
		Blobs:       c.blobs,
		Lock:        c.lock,
		Workflow:    c.config.Workflow,
		PrintLayout: c.config.PrintLayout,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	c.engine = engine
	return nil
}

func (c *Container) initWorkers() error {
	workers, err := ProvideWorkers(c.services.Lookups, c.dispatcher, &c.config.Lookups, c.logger)
	if err != nil {
		return err
	}
	c.workers = workers

	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	return nil
}

// RecordStore returns the record store.
func (c *Container) RecordStore() port.RecordStore {
	return c.store
}

// BlobStore returns the attachment blob store.
func (c *Container) BlobStore() port.BlobStore {
	return c.blobs
}

// Services returns the application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Engine returns the action engine.
func (c *Container) Engine() workflow.ActionEngine {
	return c.engine
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.WorkerManager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}
