package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
)

func TestValidateForAction_CompleteForm(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateForAction("solicitar_aprovacao_sindico", testForm(2)))
}

func TestValidateForAction_OtherActionsPass(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateForAction("salvar_cot", &entity.FormSnapshot{}))
}

func TestValidateForAction_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *entity.FormSnapshot)
		want   []string
	}{
		{
			name:   "entity and description",
			mutate: func(f *entity.FormSnapshot) { f.Record.Entity = ""; f.Record.Description = "  " },
			want:   []string{"Entidade", "Descricao_da_compra"},
		},
		{
			name:   "zero quantity",
			mutate: func(f *entity.FormSnapshot) { f.Products[0].Quantity = 0 },
			want:   []string{"quantidade"},
		},
		{
			name:   "empty unit price",
			mutate: func(f *entity.FormSnapshot) { f.Suppliers[0].Prices[0] = entity.PriceCell{} },
			want:   []string{"valor-unit"},
		},
		{
			name:   "no approved supplier",
			mutate: func(f *entity.FormSnapshot) { f.Suppliers[0].Approved = false },
			want:   []string{"supplier-checkbox"},
		},
		{
			name:   "installment without date",
			mutate: func(f *entity.FormSnapshot) { f.Installments[1].DueDate = nil },
			want:   []string{"dp-field-input"},
		},
		{
			name:   "no installments",
			mutate: func(f *entity.FormSnapshot) { f.Installments = nil },
			want:   []string{"parcela"},
		},
		{
			name: "deposit without bank details",
			mutate: func(f *entity.FormSnapshot) {
				f.Record.PaymentMethod = entity.PaymentMethodDepositChecking
				f.Record.Bank = entity.BankDetails{Bank: "001", Agency: "1234"}
			},
			want: []string{"N_Conta", "Favorecido", "CPF_CNPJ"},
		},
		{
			name: "deposit with invalid document",
			mutate: func(f *entity.FormSnapshot) {
				f.Record.PaymentMethod = entity.PaymentMethodDepositSavings
				f.Record.Bank = entity.BankDetails{
					Bank: "001", Agency: "1234", Account: "99-1",
					AccountHolder: "ACME", HolderDocument: "111.111.111-11",
				}
			},
			want: []string{"CPF_CNPJ"},
		},
		{
			name: "pix without key",
			mutate: func(f *entity.FormSnapshot) {
				f.Record.PaymentMethod = entity.PaymentMethodInstantTransfer
				f.Record.Bank = entity.BankDetails{PixKeyType: "CNPJ"}
			},
			want: []string{"Chave_pix"},
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := testForm(2)
			tt.mutate(form)

			err := v.ValidateForAction("solicitar_aprovacao_sindico", form)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.ElementsMatch(t, tt.want, verr.Fields)
		})
	}
}

func TestValidateForAction_ValidDeposit(t *testing.T) {
	form := testForm(1)
	form.Record.PaymentMethod = entity.PaymentMethodDepositChecking
	form.Record.Bank = entity.BankDetails{
		Bank: "001", Agency: "1234", Account: "99-1",
		AccountHolder: "Fulano", HolderDocument: "529.982.247-25",
	}
	assert.NoError(t, NewValidator().ValidateForAction("solicitar_aprovacao_sindico", form))
}

func TestResetForDuplicate(t *testing.T) {
	now := time.Date(2024, time.August, 2, 14, 5, 9, 0, time.UTC)
	session := &entity.SessionContext{
		RecordID:        "900",
		TempID:          "t1",
		OrderNumber:     "4512",
		Mode:            entity.SaveModeEdit,
		QuotationExists: true,
		QuotationIDs:    []string{"10"},
	}
	form := testForm(2)

	ResetForDuplicate(session, form, now)

	assert.Equal(t, "2024_08_02_14_05_09", session.TempID)
	assert.Empty(t, session.OrderNumber)
	assert.Empty(t, session.RecordID)
	assert.Equal(t, entity.SaveModeCreate, session.Mode)
	assert.False(t, session.QuotationExists)
	assert.Empty(t, session.QuotationIDs)

	assert.Zero(t, form.Products[0].Quantity)
	assert.True(t, form.Suppliers[0].Prices[0].UnitPrice.IsZero())
	assert.False(t, form.Suppliers[0].Approved)
	assert.Empty(t, form.Installments)
	assert.True(t, form.Classifications[0].Amount.IsZero())
	assert.Equal(t, "Cadeiras", form.Record.Description)
}

func TestResetForProvisioning(t *testing.T) {
	now := time.Date(2024, time.August, 2, 14, 5, 9, 0, time.UTC)
	session := &entity.SessionContext{RecordID: "900", TempID: "t1", OrderNumber: "4512", Mode: entity.SaveModeEdit}
	form := testForm(2)
	form.AssignOrderNumber("4512")
	form.Installments[0].Materialized = true

	ResetForProvisioning(session, form, now)

	assert.Equal(t, "2024_08_02_14_05_09", session.TempID)
	assert.Empty(t, session.OrderNumber)
	assert.Equal(t, 2, form.Products[0].Quantity)
	assert.True(t, form.Suppliers[0].Approved)
	assert.True(t, form.Suppliers[0].Prices[0].UnitPrice.IsZero())
	require.Len(t, form.Installments, 2)
	assert.False(t, form.Installments[0].Materialized)
	assert.Empty(t, form.Installments[0].OrderLabel)
	assert.True(t, form.Classifications[0].Amount.IsZero())
}
