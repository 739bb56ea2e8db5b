package entity

import (
	"fmt"
	"strings"

	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// FormSnapshot is the typed state of one procurement form, assembled by the
// presentation layer and handed to the engine as a plain value.
type FormSnapshot struct {
	Record          ProcurementRecord    `json:"record"`
	Installments    []Installment        `json:"installments"`
	Classifications []ClassificationLine `json:"classifications"`
	Products        []Product            `json:"products"`
	Suppliers       []SupplierQuote      `json:"suppliers"`
	Invoices        []InvoiceLine        `json:"invoices"`
	InvoiceTotals   InvoiceTotals        `json:"invoice_totals"`
	Attachments     []Attachment         `json:"attachments"`
}

// AddInstallment appends an installment and renumbers the schedule.
func (f *FormSnapshot) AddInstallment(i Installment) {
	f.Installments = append(f.Installments, i)
	f.renumber()
}

// RemoveInstallment drops the installment with the given ordinal and
// renumbers the remaining ones.
func (f *FormSnapshot) RemoveInstallment(number int) error {
	for idx, inst := range f.Installments {
		if inst.Number == number {
			f.Installments = append(f.Installments[:idx], f.Installments[idx+1:]...)
			f.renumber()
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrInstallmentNotFound, number)
}

func (f *FormSnapshot) renumber() {
	for idx := range f.Installments {
		f.Installments[idx].Number = idx + 1
	}
}

// RemoveClassification drops the classification line at index. The last
// remaining line cannot be removed.
func (f *FormSnapshot) RemoveClassification(index int) error {
	if len(f.Classifications) <= 1 {
		return ErrLastClassification
	}
	if index < 0 || index >= len(f.Classifications) {
		return fmt.Errorf("classification index %d out of range", index)
	}
	f.Classifications = append(f.Classifications[:index], f.Classifications[index+1:]...)
	return nil
}

// AssignOrderNumber labels every installment with the definitive order
// number: the base itself for a single installment, base/NN otherwise.
func (f *FormSnapshot) AssignOrderNumber(base string) {
	total := len(f.Installments)
	for idx := range f.Installments {
		f.Installments[idx].OrderLabel = OrderLabel(base, idx+1, total)
	}
}

// FirstInstallmentMaterialized reports whether the first installment already
// has its own persisted sub-record.
func (f *FormSnapshot) FirstInstallmentMaterialized() bool {
	return len(f.Installments) > 0 && f.Installments[0].Materialized
}

// PendingInstallments returns the indexes of installments that were not
// materialized yet.
func (f *FormSnapshot) PendingInstallments() []int {
	pending := make([]int, 0, len(f.Installments))
	for idx, inst := range f.Installments {
		if !inst.Materialized {
			pending = append(pending, idx)
		}
	}
	return pending
}

// ClearPrices empties every unit price, line total and supplier total.
func (f *FormSnapshot) ClearPrices() {
	for s := range f.Suppliers {
		f.Suppliers[s].GrandTotal = nil
		for p := range f.Suppliers[s].Prices {
			f.Suppliers[s].Prices[p] = PriceCell{}
		}
	}
}

// ClearQuantities zeroes every product quantity.
func (f *FormSnapshot) ClearQuantities() {
	for p := range f.Products {
		f.Products[p].Quantity = 0
	}
}

// ClearApprovals unchecks every supplier.
func (f *FormSnapshot) ClearApprovals() {
	for s := range f.Suppliers {
		f.Suppliers[s].Approved = false
	}
}

// ClearClassificationAmounts empties the amount of every classification line.
func (f *FormSnapshot) ClearClassificationAmounts() {
	for c := range f.Classifications {
		f.Classifications[c].Amount = money.Amount{}
	}
}

// OrderLabel returns the order number of the installment at ordinal out of
// total installments.
func OrderLabel(base string, ordinal, total int) string {
	if total <= 1 || base == "" {
		return base
	}
	return fmt.Sprintf("%s/%02d", base, ordinal)
}

// NormalizeOrderLabel pads a one digit installment suffix ("123/5" becomes
// "123/05").
func NormalizeOrderLabel(label string) string {
	base, suffix, found := strings.Cut(label, "/")
	if !found || len(suffix) != 1 {
		return label
	}
	return base + "/0" + suffix
}
