package config

import (
	"time"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/workflow"
	"github.com/lucasaguiar-la/cotacao-geral/internal/container"
)

// ToContainerConfig converts the file based configuration into the
// container's. Call it on a validated Config.
func (c *Config) ToContainerConfig() *container.Config {
	policy, _ := allocation.ParsePolicy(c.Allocation.Policy)

	loc, err := time.LoadLocation(c.Lookups.Timezone)
	if err != nil {
		loc = time.Local
	}

	layouts := workflow.DefaultPrintLayouts()
	if c.PrintLayout.BaseURL != "" {
		layouts.BaseURL = c.PrintLayout.BaseURL
	}
	if len(c.PrintLayout.Layouts) > 0 {
		layouts.Layouts = c.PrintLayout.Layouts
	}

	return &container.Config{
		RecordStore: container.RecordStoreConfig{
			Backend: c.RecordStore.Driver,
			Creator: c.RecordStore.Creator,
			Names:   c.RecordStore.Names,
		},
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Storage: container.StorageConfig{
			Backend:  c.Storage.Driver,
			LocalDir: c.Storage.LocalDir,
			MinIO:    c.Storage.MinIO,
		},
		Lock: container.LockConfig{
			Backend:  c.Lock.Driver,
			Addr:     c.Lock.Addr,
			Password: c.Lock.Password,
			DB:       c.Lock.DB,
			TTL:      c.Lock.TTL,
		},
		Allocation: container.AllocationConfig{
			Policy: policy,
			Digits: c.Allocation.Digits,
		},
		Workflow: container.WorkflowConfig{
			PageGating: c.Workflow.PageGating,
		},
		PrintLayout: container.PrintLayoutConfig{
			Layouts:     layouts,
			EntityNames: c.PrintLayout.EntityNames,
			RenderXLSX:  c.PrintLayout.RenderXLSX,
		},
		Lookups: container.LookupsConfig{
			Schedule: c.Lookups.Schedule,
			Location: loc,
		},
		Server: container.ServerConfig{
			Host:            c.Server.Host,
			Port:            c.Server.Port,
			ReadTimeout:     c.Server.ReadTimeout,
			WriteTimeout:    c.Server.WriteTimeout,
			ShutdownTimeout: c.Server.ShutdownTimeout,
			RateLimit:       c.Server.RateLimit,
		},
	}
}
