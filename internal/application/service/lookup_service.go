package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
)

// Search criteria used for the lookup reports
const (
	SupplierCriteria         = "(ID!=0)"
	CostCenterCriteria       = "(ID!=0)"
	OperationalClassCriteria = "(ID!=0)"
)

// classKeyField identifies operational class rows that carry no ID
const classKeyField = "C_digo_da_classe_operacional"

// LookupService loads the reference lists shown by the form
type LookupService interface {
	// Refresh reloads every list concurrently. Lists that fail keep an
	// entry in Lookups.Errors; the others are still returned.
	Refresh(ctx context.Context) (*entity.Lookups, error)
	// Current returns the last loaded snapshot, loading it on first use.
	Current(ctx context.Context) (*entity.Lookups, error)
	// SearchAll reads every page of a report.
	SearchAll(ctx context.Context, report, criteria string) ([]port.Row, error)
}

type lookupServiceImpl struct {
	store  port.RecordStore
	names  StoreNames
	logger Logger
	now    func() time.Time

	mu       sync.RWMutex
	snapshot *entity.Lookups
}

// NewLookupService creates a new LookupService
func NewLookupService(store port.RecordStore, names StoreNames, logger Logger) LookupService {
	return &lookupServiceImpl{
		store:  store,
		names:  names.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

type lookupSource struct {
	name     string
	report   string
	criteria string
	target   map[string]entity.LookupEntry
}

// Refresh fans the three searches out and swaps the cached snapshot
func (s *lookupServiceImpl) Refresh(ctx context.Context) (*entity.Lookups, error) {
	lookups := entity.NewLookups()
	sources := []lookupSource{
		{entity.LookupSuppliers, s.names.SupplierReport, SupplierCriteria, lookups.Suppliers},
		{entity.LookupCostCenters, s.names.CostCenterReport, CostCenterCriteria, lookups.CostCenters},
		{entity.LookupOperationalClasses, s.names.OperationalClassReport, OperationalClassCriteria, lookups.OperationalClasses},
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, src := range sources {
		src := src
		g.Go(func() error {
			rows, err := s.SearchAll(ctx, src.report, src.criteria)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lookups.Errors[src.name] = err.Error()
				s.logger.Error("Lookup load failed", "lookup", src.name, "report", src.report, "error", err)
			}
			for _, row := range rows {
				key := rowKey(row)
				src.target[key] = entity.LookupEntry{ID: key, Fields: row}
			}
			return nil
		})
	}
	_ = g.Wait()

	lookups.LoadedAt = s.now()
	if len(lookups.Errors) == len(sources) {
		return lookups, fmt.Errorf("every lookup failed to load")
	}

	s.mu.Lock()
	s.snapshot = lookups
	s.mu.Unlock()

	s.logger.Info("Lookups loaded",
		"suppliers", len(lookups.Suppliers),
		"cost_centers", len(lookups.CostCenters),
		"operational_classes", len(lookups.OperationalClasses),
		"failed", len(lookups.Errors))
	return lookups, nil
}

// Current returns the cached snapshot
func (s *lookupServiceImpl) Current(ctx context.Context) (*entity.Lookups, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// SearchAll walks the report 200 rows at a time until a page comes back
// empty, with "no records", or with any other code. Rows are deduplicated
// by key in first seen order; a later duplicate replaces the earlier value.
func (s *lookupServiceImpl) SearchAll(ctx context.Context, report, criteria string) ([]port.Row, error) {
	var rows []port.Row
	index := make(map[string]int)

	for page := 1; ; page++ {
		res, err := s.store.Search(ctx, report, criteria, page)
		if err != nil {
			return rows, fmt.Errorf("failed to search %s page %d: %w", report, page, err)
		}
		if res.Code == port.CodeNoRecords || len(res.Rows) == 0 {
			return rows, nil
		}
		if res.Code != port.CodeSuccess {
			return rows, &port.StoreError{Op: "search", Target: report, Code: res.Code}
		}

		for _, row := range res.Rows {
			key := rowKey(row)
			if at, ok := index[key]; ok {
				rows[at] = row
				continue
			}
			index[key] = len(rows)
			rows = append(rows, row)
		}

		if len(res.Rows) < port.PageSize {
			return rows, nil
		}
	}
}

func rowKey(row port.Row) string {
	if id := row.ID(); id != "" {
		return id
	}
	return port.Text(row[classKeyField])
}
