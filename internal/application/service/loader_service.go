package service

import (
	"context"
	"fmt"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
)

// Pages that show every active quotation row, approved or not
var allRowsPages = map[string]bool{
	"editar_cotacao":  true,
	"aprovar_cotacao": true,
	"ver_cotacao":     true,
}

// LoadedRecord is what the store holds for one temporary id
type LoadedRecord struct {
	Session   *entity.SessionContext `json:"session"`
	Record    port.Row               `json:"record,omitempty"`
	Quotation []port.Row             `json:"quotation"`
}

// LoaderService reads a saved record back into a session
type LoaderService interface {
	Load(ctx context.Context, tempID, page string) (*LoadedRecord, error)
}

type loaderServiceImpl struct {
	lookups LookupService
	names   StoreNames
	logger  Logger
}

// NewLoaderService creates a new LoaderService. Searches go through the
// lookup service so quotation rows are read page by page.
func NewLoaderService(lookups LookupService, names StoreNames, logger Logger) LoaderService {
	return &loaderServiceImpl{
		lookups: lookups,
		names:   names.withDefaults(),
		logger:  logger,
	}
}

// Load finds the header by temporary id and its live quotation rows. A
// missing header leaves the session in create mode.
func (s *loaderServiceImpl) Load(ctx context.Context, tempID, page string) (*LoadedRecord, error) {
	if tempID == "" {
		return nil, fmt.Errorf("%w: temporary id is required", ErrValidation)
	}

	session := &entity.SessionContext{TempID: tempID, Page: page, Mode: entity.SaveModeCreate}
	out := &LoadedRecord{Session: session}

	records, err := s.lookups.SearchAll(ctx, s.names.RecordReport, RecordCriteria(tempID))
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", tempID, err)
	}
	if len(records) > 0 {
		out.Record = records[0]
		session.RecordID = out.Record.ID()
		session.OrderNumber = port.Text(out.Record["Numero_do_PDC"])
		session.Mode = entity.SaveModeEdit
	}

	rows, err := s.lookups.SearchAll(ctx, s.names.QuotationReport, QuotationCriteria(tempID, page))
	if err != nil {
		return nil, fmt.Errorf("failed to load quotation of %s: %w", tempID, err)
	}
	out.Quotation = rows

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID())
	}
	session.SetQuotationIDs(ids)

	s.logger.Info("Record loaded", "temp_id", tempID, "record_id", session.RecordID,
		"mode", session.Mode, "quotation_rows", len(rows))
	return out, nil
}

// RecordCriteria selects the header with the given temporary id
func RecordCriteria(tempID string) string {
	return fmt.Sprintf("(id_temp==%q)", tempID)
}

// QuotationCriteria selects the active quotation rows of a record. Outside
// the edit, approval and view pages only approved rows are returned.
func QuotationCriteria(tempID, page string) string {
	c := fmt.Sprintf("(num_PDC_temp==%q && Ativo==true", tempID)
	if !allRowsPages[page] {
		c += " && Aprovado==true"
	}
	return c + ")"
}
