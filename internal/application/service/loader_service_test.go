package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
)

func TestQuotationCriteria(t *testing.T) {
	tests := []struct {
		page string
		want string
	}{
		{"editar_cotacao", `(num_PDC_temp=="t1" && Ativo==true)`},
		{"aprovar_cotacao", `(num_PDC_temp=="t1" && Ativo==true)`},
		{"ver_cotacao", `(num_PDC_temp=="t1" && Ativo==true)`},
		{"confirmar_compra", `(num_PDC_temp=="t1" && Ativo==true && Aprovado==true)`},
		{"", `(num_PDC_temp=="t1" && Ativo==true && Aprovado==true)`},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			assert.Equal(t, tt.want, QuotationCriteria("t1", tt.page))
		})
	}
	assert.Equal(t, `(id_temp=="t1")`, RecordCriteria("t1"))
}

func TestLoad_ExistingRecord(t *testing.T) {
	names := DefaultStoreNames()
	store := &mockRecordStore{}
	var criteria []string
	store.searchFunc = func(ctx context.Context, report, c string, page int) (*port.SearchResult, error) {
		if page > 1 {
			return &port.SearchResult{Code: port.CodeNoRecords}, nil
		}
		criteria = append(criteria, c)
		switch report {
		case names.RecordReport:
			return &port.SearchResult{Code: port.CodeSuccess, Rows: []port.Row{
				{"ID": "900", "Numero_do_PDC": "4512", "id_temp": "t1"},
			}}, nil
		case names.QuotationReport:
			return &port.SearchResult{Code: port.CodeSuccess, Rows: []port.Row{
				{"ID": "12"}, {"ID": "9"}, {"ID": "12"},
			}}, nil
		}
		return &port.SearchResult{Code: port.CodeNoRecords}, nil
	}

	lookups := NewLookupService(store, names, &mockLogger{})
	loader := NewLoaderService(lookups, names, &mockLogger{})

	got, err := loader.Load(context.Background(), "t1", "aprovar_cotacao")
	require.NoError(t, err)

	s := got.Session
	assert.Equal(t, "900", s.RecordID)
	assert.Equal(t, "4512", s.OrderNumber)
	assert.Equal(t, entity.SaveModeEdit, s.Mode)
	assert.Equal(t, "aprovar_cotacao", s.Page)
	assert.True(t, s.QuotationExists)
	assert.Equal(t, []string{"9", "12"}, s.QuotationIDs)
	assert.Len(t, got.Quotation, 2)
	assert.Equal(t, []string{`(id_temp=="t1")`, `(num_PDC_temp=="t1" && Ativo==true)`}, criteria)
}

func TestLoad_NewRecord(t *testing.T) {
	store := &mockRecordStore{}
	loader := NewLoaderService(NewLookupService(store, DefaultStoreNames(), &mockLogger{}), DefaultStoreNames(), &mockLogger{})

	got, err := loader.Load(context.Background(), "t2", "criar_cotacao")
	require.NoError(t, err)
	assert.Empty(t, got.Session.RecordID)
	assert.Equal(t, entity.SaveModeCreate, got.Session.Mode)
	assert.False(t, got.Session.QuotationExists)
	assert.Nil(t, got.Record)
}

func TestLoad_RequiresTempID(t *testing.T) {
	loader := NewLoaderService(NewLookupService(&mockRecordStore{}, DefaultStoreNames(), &mockLogger{}), DefaultStoreNames(), &mockLogger{})

	_, err := loader.Load(context.Background(), "", "ver_cotacao")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestLoad_SearchFailure(t *testing.T) {
	store := &mockRecordStore{}
	store.searchFunc = func(ctx context.Context, report, c string, page int) (*port.SearchResult, error) {
		return nil, errors.New("dial tcp: refused")
	}
	loader := NewLoaderService(NewLookupService(store, DefaultStoreNames(), &mockLogger{}), DefaultStoreNames(), &mockLogger{})

	_, err := loader.Load(context.Background(), "t1", "ver_cotacao")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}
