package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/utils"
)

// ErrValidation is wrapped by every ValidationError
var ErrValidation = errors.New("validation failed")

// ValidationError lists the fields that must be filled before an action runs
type ValidationError struct {
	Action string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: fields must be filled: %s", e.Action, strings.Join(e.Fields, ", "))
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validator checks a form before the actions that require a complete one
type Validator struct {
	validate *validator.Validate
}

// approvalForm is the view of a form checked before asking for approval
type approvalForm struct {
	Entity        string            `validate:"required" label:"Entidade"`
	RequestType   string            `validate:"required" label:"Tipo_de_solicitacao"`
	Description   string            `validate:"required" label:"Descricao_da_compra"`
	Justification string            `validate:"required" label:"Utilizacao"`
	PaymentMethod string            `validate:"required" label:"Forma_de_pagamento"`
	Bank          bankForm          `label:"dados_bancarios"`
	Products      []productForm     `validate:"required,min=1,dive" label:"produtos"`
	Suppliers     []supplierForm    `validate:"required,min=1,dive" label:"fornecedores"`
	Installments  []installmentForm `validate:"required,min=1,dive" label:"parcela"`
}

type bankForm struct {
	Method         string
	Bank           string
	Agency         string
	Account        string
	AccountHolder  string
	HolderDocument string
	PixKeyType     string
	PixKey         string
}

type productForm struct {
	Name     string `validate:"required" label:"produto"`
	Quantity int    `validate:"gt=0" label:"quantidade"`
}

type supplierForm struct {
	ID       string `validate:"required" label:"id_forn"`
	Approved bool
	Prices   []money.Amount `validate:"dive,gt=0" label:"valor-unit"`
}

type installmentForm struct {
	DueDate string `validate:"required" label:"dp-field-input"`
}

// NewValidator creates a validator with the form rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if a, ok := field.Interface().(money.Amount); ok {
			return a.InexactFloat64()
		}
		return nil
	}, money.Amount{})
	v.RegisterStructValidation(validateApprovalForm, approvalForm{})
	v.RegisterStructValidation(validateBankForm, bankForm{})
	return &Validator{validate: v}
}

// ValidateForAction checks the fields required by action. Actions without
// rules always pass.
func (v *Validator) ValidateForAction(action string, form *entity.FormSnapshot) error {
	if action != "solicitar_aprovacao_sindico" {
		return nil
	}

	err := v.validate.Struct(newApprovalForm(form))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	seen := make(map[string]bool)
	out := &ValidationError{Action: action}
	for _, fe := range verrs {
		name := fe.Field()
		if i := strings.IndexByte(name, '['); i > 0 {
			name = name[:i]
		}
		if !seen[name] {
			seen[name] = true
			out.Fields = append(out.Fields, name)
		}
	}
	return out
}

func newApprovalForm(form *entity.FormSnapshot) approvalForm {
	r := form.Record
	f := approvalForm{
		Entity:        r.Entity,
		RequestType:   r.RequestType,
		Description:   strings.TrimSpace(r.Description),
		Justification: strings.TrimSpace(r.Justification),
		PaymentMethod: string(r.PaymentMethod),
		Bank: bankForm{
			Method:         string(r.PaymentMethod),
			Bank:           r.Bank.Bank,
			Agency:         r.Bank.Agency,
			Account:        r.Bank.Account,
			AccountHolder:  r.Bank.AccountHolder,
			HolderDocument: r.Bank.HolderDocument,
			PixKeyType:     r.Bank.PixKeyType,
			PixKey:         r.Bank.PixKey,
		},
	}

	for _, p := range form.Products {
		f.Products = append(f.Products, productForm{Name: p.Name, Quantity: p.Quantity})
	}
	for _, s := range form.Suppliers {
		sf := supplierForm{ID: s.ID, Approved: s.Approved}
		for _, c := range s.Prices {
			sf.Prices = append(sf.Prices, c.UnitPrice)
		}
		f.Suppliers = append(f.Suppliers, sf)
	}
	for _, inst := range form.Installments {
		var due string
		if inst.DueDate != nil && !inst.DueDate.IsZero() {
			due = inst.DueDate.Wire()
		}
		f.Installments = append(f.Installments, installmentForm{DueDate: due})
	}
	return f
}

// validateApprovalForm requires at least one checked supplier
func validateApprovalForm(sl validator.StructLevel) {
	f := sl.Current().Interface().(approvalForm)
	for _, s := range f.Suppliers {
		if s.Approved {
			return
		}
	}
	if len(f.Suppliers) > 0 {
		sl.ReportError(f.Suppliers, "supplier-checkbox", "Suppliers", "approved", "")
	}
}

// validateBankForm requires the deposit or instant transfer details that
// match the chosen payment method
func validateBankForm(sl validator.StructLevel) {
	b := sl.Current().Interface().(bankForm)
	method := entity.PaymentMethod(b.Method)

	switch method {
	case entity.PaymentMethodDepositChecking, entity.PaymentMethodDepositSavings:
		required := []struct{ label, value string }{
			{"Banco", b.Bank},
			{"AG", b.Agency},
			{"N_Conta", b.Account},
			{"Favorecido", b.AccountHolder},
			{"CPF_CNPJ", b.HolderDocument},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				sl.ReportError(r.value, r.label, r.label, "required", "")
			}
		}
		if b.HolderDocument != "" && utils.ValidateDocument(b.HolderDocument) != nil {
			sl.ReportError(b.HolderDocument, "CPF_CNPJ", "HolderDocument", "document", "")
		}
	case entity.PaymentMethodInstantTransfer:
		if strings.TrimSpace(b.PixKeyType) == "" {
			sl.ReportError(b.PixKeyType, "Tipo_de_chave_pix", "PixKeyType", "required", "")
		}
		if strings.TrimSpace(b.PixKey) == "" {
			sl.ReportError(b.PixKey, "Chave_pix", "PixKey", "required", "")
		}
	}
}
