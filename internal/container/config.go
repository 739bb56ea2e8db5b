// Package container wires the procurement engine together and owns the
// lifecycle of its components.
package container

import (
	"fmt"
	"time"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/workflow"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/external/creator"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/lock"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/storage"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/worker"
)

// Record store, blob store and lock backends
const (
	BackendCreator = "creator"
	BackendSQLite  = "sqlite"
	BackendLocal   = "local"
	BackendMinIO   = "minio"
	BackendRedis   = "redis"
)

// Config holds all configuration for the Container.
type Config struct {
	RecordStore RecordStoreConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Lock        LockConfig
	Allocation  AllocationConfig
	Workflow    WorkflowConfig
	PrintLayout PrintLayoutConfig
	Lookups     LookupsConfig
	Server      ServerConfig
}

// RecordStoreConfig selects the record store backend.
type RecordStoreConfig struct {
	// Backend is BackendCreator or BackendSQLite
	Backend string

	Creator creator.Config
	Names   service.StoreNames
}

// DatabaseConfig holds the SQLite settings of the local record store.
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the migrations embedded in the binary
	MigrationsDir string
}

// StorageConfig selects where attachment blobs live.
type StorageConfig struct {
	// Backend is BackendLocal or BackendMinIO
	Backend  string
	LocalDir string
	MinIO    storage.MinIOConfig
}

// LockConfig selects the per record save lock.
type LockConfig struct {
	// Backend is BackendLocal or BackendRedis
	Backend  string
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// AllocationConfig sets the division policy of the splitter.
type AllocationConfig struct {
	Policy allocation.Policy
	Digits int
}

// WorkflowConfig tunes the action engine.
type WorkflowConfig struct {
	PageGating bool
}

// PrintLayoutConfig holds the purchase order layouts.
type PrintLayoutConfig struct {
	Layouts     workflow.PrintLayouts
	EntityNames map[string]string

	// RenderXLSX subscribes the workbook renderer to purchase.confirmed
	RenderXLSX bool
}

// LookupsConfig holds the lookup refresh schedule.
type LookupsConfig struct {
	Schedule string
	Location *time.Location
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// RateLimit is the number of requests allowed per client IP per minute
	RateLimit int
}

// DefaultConfig returns a Config running fully on local backends.
func DefaultConfig() *Config {
	return &Config{
		RecordStore: RecordStoreConfig{
			Backend: BackendSQLite,
			Creator: creator.Config{BaseURL: creator.DefaultBaseURL, Timeout: 30 * time.Second},
			Names:   service.DefaultStoreNames(),
		},
		Database: DatabaseConfig{
			Path:            "data/cotacao.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Storage: StorageConfig{
			Backend:  BackendLocal,
			LocalDir: "data/blobs",
		},
		Lock: LockConfig{
			Backend: BackendLocal,
			TTL:     lock.DefaultTTL,
		},
		Allocation: AllocationConfig{
			Policy: allocation.TruncateEach,
			Digits: 2,
		},
		Workflow: WorkflowConfig{PageGating: true},
		PrintLayout: PrintLayoutConfig{
			Layouts:    workflow.DefaultPrintLayouts(),
			RenderXLSX: true,
		},
		Lookups: LookupsConfig{
			Schedule: worker.DefaultLookupSchedule,
			Location: time.Local,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       120,
		},
	}
}

// Validate checks that the selected backends are configured.
func (c *Config) Validate() error {
	switch c.RecordStore.Backend {
	case BackendCreator:
		if c.RecordStore.Creator.Token == "" {
			return fmt.Errorf("creator token is required")
		}
	case BackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required")
		}
	default:
		return fmt.Errorf("unknown record store backend %q", c.RecordStore.Backend)
	}

	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage local dir is required")
		}
	case BackendMinIO:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Lock.Backend {
	case BackendLocal, BackendRedis:
	default:
		return fmt.Errorf("unknown lock backend %q", c.Lock.Backend)
	}

	return nil
}
