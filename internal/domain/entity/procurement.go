package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// PaymentMethod is how the beneficiary gets paid.
type PaymentMethod string

// ProcurementRecord holds the header of one purchase request. The record
// identity (id, temporary id, order number) is carried by SessionContext.
type ProcurementRecord struct {
	Entity             string        `json:"entity"`
	RequestType        string        `json:"request_type"`
	Description        string        `json:"description"`
	Justification      string        `json:"justification"`
	PaymentMethod      PaymentMethod `json:"payment_method"`
	Beneficiary        string        `json:"beneficiary,omitempty"`
	Bank               BankDetails   `json:"bank"`
	ResponsibleProfile string        `json:"responsible_profile,omitempty"`
	Status             string        `json:"status,omitempty"`
	BudgetedValue      money.Amount  `json:"budgeted_value"`
	AdvancePayment     bool          `json:"advance_payment"`
	AdjustmentNote     string        `json:"adjustment_note,omitempty"`
}

// BankDetails identifies where a deposit or instant transfer goes.
type BankDetails struct {
	Bank           string `json:"bank,omitempty"`
	Agency         string `json:"agency,omitempty"`
	Account        string `json:"account,omitempty"`
	AccountHolder  string `json:"account_holder,omitempty"`
	HolderDocument string `json:"holder_document,omitempty"`
	PixKeyType     string `json:"pix_key_type,omitempty"`
	PixKey         string `json:"pix_key,omitempty"`
}

// IsService reports whether the request buys a service rather than goods.
func (r *ProcurementRecord) IsService() bool {
	t := cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(r.RequestType))
	return t == RequestTypeService || t == "SERVICO"
}

// IsHR reports whether the responsible profile is the HR department.
func (r *ProcurementRecord) IsHR() bool {
	return strings.Contains(r.ResponsibleProfile, ProfileHR)
}

// Installment is one scheduled payment of the approved amount.
type Installment struct {
	Number       int           `json:"number"`
	DueDate      *Date         `json:"due_date,omitempty"`
	Amount       *money.Amount `json:"amount,omitempty"`
	OrderLabel   string        `json:"order_label,omitempty"`
	Materialized bool          `json:"materialized"`
}

// Complete reports whether the installment has both a due date and an amount.
func (i Installment) Complete() bool {
	return i.DueDate != nil && !i.DueDate.IsZero() && i.Amount != nil
}

// ClassificationLine allocates part of the record to an account, a cost
// center and an operational class. The three keys are opaque lookup ids.
type ClassificationLine struct {
	Account          string       `json:"account"`
	CostCenter       string       `json:"cost_center"`
	OperationalClass string       `json:"operational_class"`
	Amount           money.Amount `json:"amount"`
}

// InvoiceLine is one fiscal note attached to the record.
type InvoiceLine struct {
	IssueDate *Date  `json:"issue_date,omitempty"`
	Number    string `json:"number"`
}

// InvoiceTotals are the amounts shown under the invoice lines.
type InvoiceTotals struct {
	Original  money.Amount `json:"original"`
	Discounts money.Amount `json:"discounts"`
	Additions money.Amount `json:"additions"`
}
