package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/dispatcher"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/workflow"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/external/creator"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/lock"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/persistence/sqlite"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/storage"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/worker"
	"github.com/lucasaguiar-la/cotacao-geral/internal/printlayout"
	"github.com/lucasaguiar-la/cotacao-geral/internal/splitter"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/database"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/utils"
)

// StoreBundle holds the record store and, for the local backend, the
// database behind it.
type StoreBundle struct {
	Store port.RecordStore
	DB    *database.DB
}

// LockBundle holds the save lock and, for the Redis backend, its client.
type LockBundle struct {
	Lock  port.SaveLock
	Redis *redis.Client
}

// ProvideDatabase opens the SQLite database and applies the migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	if cfg.Path != database.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).RunMigrations(cfg.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// ProvideRecordStore creates the Creator client or the local SQLite store.
func ProvideRecordStore(cfg *RecordStoreConfig, dbCfg *DatabaseConfig, logger *zap.Logger) (*StoreBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("record store config is required")
	}

	switch cfg.Backend {
	case BackendCreator:
		return &StoreBundle{Store: creator.NewClient(cfg.Creator, logger.Named("creator"))}, nil

	case BackendSQLite:
		db, err := ProvideDatabase(dbCfg, logger)
		if err != nil {
			return nil, err
		}
		names := cfg.Names
		store := sqlite.NewRecordStore(sqlite.NewDB(db.DB, logger), map[string]string{
			names.RecordReport:    names.RecordForm,
			names.QuotationReport: names.QuotationForm,
			names.FileReport:      names.FileForm,
		}, logger.Named("sqlite"))
		return &StoreBundle{Store: store, DB: db}, nil

	default:
		return nil, fmt.Errorf("unknown record store backend %q", cfg.Backend)
	}
}

// ProvideBlobStore creates the local or MinIO blob store.
func ProvideBlobStore(ctx context.Context, cfg *StorageConfig, logger *zap.Logger) (port.BlobStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	switch cfg.Backend {
	case BackendLocal:
		return storage.NewLocalBlobStore(cfg.LocalDir, logger), nil
	case BackendMinIO:
		return storage.NewMinIOBlobStore(ctx, cfg.MinIO, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ProvideSaveLock creates the in-process or Redis save lock.
func ProvideSaveLock(ctx context.Context, cfg *LockConfig, logger *zap.Logger) (*LockBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("lock config is required")
	}

	switch cfg.Backend {
	case BackendLocal:
		return &LockBundle{Lock: lock.NewLocalLock()}, nil
	case BackendRedis:
		client, err := lock.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &LockBundle{Lock: lock.NewRedisLock(client, cfg.TTL, logger), Redis: client}, nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.Backend)
	}
}

// ServiceDeps are the dependencies of the application services.
type ServiceDeps struct {
	Store      port.RecordStore
	Blobs      port.BlobStore
	Lock       port.SaveLock
	Names      service.StoreNames
	Allocation AllocationConfig
	Logger     *zap.Logger
}

// ProvideServices creates the application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if deps.Lock == nil {
		return nil, fmt.Errorf("save lock is required")
	}

	kv := utils.NewKeyValueLogger(deps.Logger)
	alloc := allocation.New(deps.Allocation.Policy, deps.Allocation.Digits)
	lookups := service.NewLookupService(deps.Store, deps.Names, kv.Named("lookups"))

	return &ServiceBundle{
		Lookups:   lookups,
		Loader:    service.NewLoaderService(lookups, deps.Names, kv.Named("loader")),
		Save:      service.NewSaveService(deps.Store, deps.Blobs, deps.Lock, splitter.New(alloc), deps.Names, kv.Named("save")),
		Validator: service.NewValidator(),
		Allocator: alloc,
	}, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKeyValueLogger(logger).Named("dispatcher")))
}

// EngineDeps are the dependencies of the action engine.
type EngineDeps struct {
	Services    *ServiceBundle
	Dispatcher  dispatcher.Dispatcher
	Blobs       port.BlobStore
	Lock        port.SaveLock
	Workflow    WorkflowConfig
	PrintLayout PrintLayoutConfig
	Logger      *zap.Logger
}

// ProvideEngine creates the action engine and subscribes the purchase
// order renderer when enabled.
func ProvideEngine(deps *EngineDeps) (workflow.ActionEngine, error) {
	if deps == nil || deps.Services == nil {
		return nil, fmt.Errorf("services are required")
	}

	opts := []workflow.EngineOption{
		workflow.WithDispatcher(deps.Dispatcher),
		workflow.WithValidator(deps.Services.Validator),
		workflow.WithPrintLayouts(deps.PrintLayout.Layouts),
		workflow.WithLogger(utils.NewKeyValueLogger(deps.Logger).Named("engine")),
	}
	if deps.Workflow.PageGating {
		opts = append(opts, workflow.WithPageGating())
	}
	if deps.Lock != nil {
		opts = append(opts, workflow.WithSaveLock(deps.Lock))
	}

	if deps.PrintLayout.RenderXLSX && deps.Blobs != nil && deps.Dispatcher != nil {
		printlayout.NewRenderer(deps.Blobs, deps.PrintLayout.EntityNames, deps.Logger.Named("printlayout")).
			Register(deps.Dispatcher)
	}

	return workflow.NewDefaultEngine(deps.Services.Save, opts...), nil
}

// ProvideWorkers creates the worker manager with the lookup refresher.
func ProvideWorkers(lookups service.LookupService, d dispatcher.Dispatcher, cfg *LookupsConfig, logger *zap.Logger) (*worker.WorkerManager, error) {
	refresher, err := worker.NewLookupRefresher(lookups, d, cfg.Schedule, cfg.Location, logger.Named("lookups"))
	if err != nil {
		return nil, err
	}

	manager := worker.NewWorkerManager(logger)
	manager.Register(refresher)
	return manager, nil
}
