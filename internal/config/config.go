package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/external/creator"
	"github.com/lucasaguiar-la/cotacao-geral/internal/infrastructure/storage"
)

// Record store drivers
const (
	DriverCreator = "creator"
	DriverSQLite  = "sqlite"
)

// Blob store and lock drivers
const (
	DriverLocal = "local"
	DriverMinIO = "minio"
	DriverRedis = "redis"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	RecordStore RecordStoreConfig `mapstructure:"record_store"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Lock        LockConfig        `mapstructure:"lock"`
	Allocation  AllocationConfig  `mapstructure:"allocation"`
	Workflow    WorkflowConfig    `mapstructure:"workflow"`
	PrintLayout PrintLayoutConfig `mapstructure:"print_layout"`
	Lookups     LookupsConfig     `mapstructure:"lookups"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// RecordStoreConfig selects the record store and names its forms and reports
type RecordStoreConfig struct {
	Driver  string             `mapstructure:"driver"`
	Creator creator.Config     `mapstructure:"creator"`
	Names   service.StoreNames `mapstructure:"names"`
}

// DatabaseConfig holds the local record store database
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// StorageConfig selects where attachments and purchase orders are kept
type StorageConfig struct {
	Driver   string              `mapstructure:"driver"`
	LocalDir string              `mapstructure:"local_dir"`
	MinIO    storage.MinIOConfig `mapstructure:"minio"`
}

// LockConfig selects the per record save lock
type LockConfig struct {
	Driver   string        `mapstructure:"driver"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AllocationConfig sets how approved totals are divided
type AllocationConfig struct {
	Policy string `mapstructure:"policy"`
	Digits int    `mapstructure:"digits"`
}

// WorkflowConfig tunes the action engine
type WorkflowConfig struct {
	PageGating bool `mapstructure:"page_gating"`
}

// PrintLayoutConfig holds the purchase order layouts
type PrintLayoutConfig struct {
	BaseURL     string            `mapstructure:"base_url"`
	Layouts     map[string]string `mapstructure:"layouts"`
	EntityNames map[string]string `mapstructure:"entity_names"`
	RenderXLSX  bool              `mapstructure:"render_xlsx"`
}

// LookupsConfig holds the lookup refresh schedule
type LookupsConfig struct {
	Schedule string `mapstructure:"schedule"`
	Timezone string `mapstructure:"timezone"`
}

// Load reads an optional .env file, then the YAML file at configPath, then
// the environment. An empty configPath uses defaults and environment only.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of path without overriding the ones
// already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.rate_limit", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	names := service.DefaultStoreNames()
	v.SetDefault("record_store.driver", DriverSQLite)
	v.SetDefault("record_store.creator.base_url", creator.DefaultBaseURL)
	v.SetDefault("record_store.creator.timeout", 30*time.Second)
	v.SetDefault("record_store.names.record_form", names.RecordForm)
	v.SetDefault("record_store.names.record_report", names.RecordReport)
	v.SetDefault("record_store.names.quotation_form", names.QuotationForm)
	v.SetDefault("record_store.names.quotation_report", names.QuotationReport)
	v.SetDefault("record_store.names.file_form", names.FileForm)
	v.SetDefault("record_store.names.file_report", names.FileReport)
	v.SetDefault("record_store.names.file_field", names.FileField)
	v.SetDefault("record_store.names.supplier_report", names.SupplierReport)
	v.SetDefault("record_store.names.cost_center_report", names.CostCenterReport)
	v.SetDefault("record_store.names.operational_class_report", names.OperationalClassReport)

	v.SetDefault("database.path", "data/cotacao.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "")

	v.SetDefault("storage.driver", DriverLocal)
	v.SetDefault("storage.local_dir", "data/blobs")
	v.SetDefault("storage.minio.bucket", "cotacao")

	v.SetDefault("lock.driver", DriverLocal)
	v.SetDefault("lock.addr", "localhost:6379")
	v.SetDefault("lock.ttl", 2*time.Minute)

	v.SetDefault("allocation.policy", string(allocation.TruncateEach))
	v.SetDefault("allocation.digits", 2)

	v.SetDefault("workflow.page_gating", true)

	v.SetDefault("print_layout.render_xlsx", true)

	v.SetDefault("lookups.schedule", "*/30 * * * *")
	v.SetDefault("lookups.timezone", "America/Sao_Paulo")
}

// bindEnvVars maps the credentials to their conventional variable names
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"record_store.creator.owner": "CREATOR_OWNER",
		"record_store.creator.app":   "CREATOR_APP",
		"record_store.creator.token": "CREATOR_TOKEN",
		"storage.minio.endpoint":     "MINIO_ENDPOINT",
		"storage.minio.access_key":   "MINIO_ACCESS_KEY",
		"storage.minio.secret_key":   "MINIO_SECRET_KEY",
		"lock.addr":                  "REDIS_ADDR",
		"lock.password":              "REDIS_PASSWORD",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	switch c.RecordStore.Driver {
	case DriverCreator:
		if c.RecordStore.Creator.Owner == "" || c.RecordStore.Creator.App == "" {
			return fmt.Errorf("record_store.creator.owner and record_store.creator.app are required")
		}
		if c.RecordStore.Creator.Token == "" {
			return fmt.Errorf("record_store.creator.token is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required")
		}
	default:
		return fmt.Errorf("unknown record_store.driver %q", c.RecordStore.Driver)
	}

	switch c.Storage.Driver {
	case DriverLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage.local_dir is required")
		}
	case DriverMinIO:
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.Bucket == "" {
			return fmt.Errorf("storage.minio.endpoint and storage.minio.bucket are required")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Lock.Driver {
	case DriverLocal:
	case DriverRedis:
		if c.Lock.Addr == "" {
			return fmt.Errorf("lock.addr is required")
		}
	default:
		return fmt.Errorf("unknown lock.driver %q", c.Lock.Driver)
	}

	if _, err := allocation.ParsePolicy(c.Allocation.Policy); err != nil {
		return fmt.Errorf("allocation.policy: %w", err)
	}
	if c.Allocation.Digits < 0 || c.Allocation.Digits > 8 {
		return fmt.Errorf("allocation.digits %d is out of range", c.Allocation.Digits)
	}

	if _, err := cron.ParseStandard(c.Lookups.Schedule); err != nil {
		return fmt.Errorf("lookups.schedule: %w", err)
	}
	if _, err := time.LoadLocation(c.Lookups.Timezone); err != nil {
		return fmt.Errorf("lookups.timezone: %w", err)
	}

	return nil
}
