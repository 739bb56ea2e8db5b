// Package splitter turns a procurement form into the sub-record payloads
// persisted by the save orchestrator.
package splitter

import (
	"github.com/shopspring/decimal"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// WholeRecord is the ordinal of the single payload built without splitting
const WholeRecord = 0

// Options select how the form is turned into payloads
type Options struct {
	Split  bool
	Status string
	Extra  map[string]interface{}
}

// Payloads is the ordered payload set of one save
type Payloads []entity.SubRecord

// Get returns the payload with the given ordinal
func (p Payloads) Get(ordinal int) (entity.SubRecord, bool) {
	for _, sr := range p {
		if sr.Ordinal == ordinal {
			return sr, true
		}
	}
	return entity.SubRecord{}, false
}

// Ordinals returns the ordinals in payload order
func (p Payloads) Ordinals() []int {
	out := make([]int, len(p))
	for i, sr := range p {
		out[i] = sr.Ordinal
	}
	return out
}

// Splitter builds payloads using an allocator for every division
type Splitter struct {
	alloc *allocation.Allocator
}

// New creates a splitter
func New(alloc *allocation.Allocator) *Splitter {
	if alloc == nil {
		alloc = allocation.New(allocation.TruncateEach, money.DefaultDigits)
	}
	return &Splitter{alloc: alloc}
}

// Compute builds the payloads of one save. With Split set it emits one
// sub-record per installment not materialized yet and marks each of them
// materialized once its payload is built, so a second call returns nothing.
// Without Split it emits exactly one payload for the whole record.
func (s *Splitter) Compute(session *entity.SessionContext, form *entity.FormSnapshot, opts Options) Payloads {
	if !opts.Split {
		return Payloads{s.Mesh(session, form, opts)}
	}

	pending := form.PendingInstallments()
	n := len(pending)
	if n == 0 {
		return Payloads{}
	}

	total := len(form.Installments)
	classShares := s.classificationShares(form.Classifications, n)
	approvedIdx, hasApproved := allocation.ApprovedSupplier(form)
	var budgetShares []decimal.Decimal
	if hasApproved {
		budgetShares = s.alloc.Shares(allocation.SupplierTotal(form, approvedIdx), n)
	}

	invoices := invoicePayloads(form.Invoices)
	out := make(Payloads, 0, n)

	for k, idx := range pending {
		inst := form.Installments[idx]
		ordinal := idx + 1
		tempID := entity.OrderLabel(session.TempID, ordinal, total)
		label := inst.OrderLabel
		if label == "" {
			label = entity.OrderLabel(session.OrderNumber, ordinal, total)
		}
		label = entity.NormalizeOrderLabel(label)

		rec := s.header(form, opts)
		rec.TempID = tempID
		rec.TempOrderNumber = tempID
		rec.OrderNumber = label
		rec.Invoices = invoices

		if inst.Complete() {
			rec.Installments = []entity.InstallmentPayload{{
				Number:      ordinal,
				DueDate:     inst.DueDate.Wire(),
				Amount:      cloneAmount(inst.Amount),
				OrderNumber: label,
				Created:     true,
			}}
			rec.DueDate = inst.DueDate.Wire()
		}

		lines := make([]entity.ClassificationPayload, len(form.Classifications))
		for c, line := range form.Classifications {
			lines[c] = classificationPayload(line, classShares[c][k])
		}
		rec.Classifications = lines

		if hasApproved {
			rec.Beneficiary = form.Suppliers[approvedIdx].Name
			rec.BudgetedValue = amountPtr(budgetShares[k])
		}

		attachments := make([]entity.Attachment, len(form.Attachments))
		for a, att := range form.Attachments {
			attachments[a] = att.Clone()
		}

		out = append(out, entity.SubRecord{
			Ordinal:     ordinal,
			Record:      rec,
			Quotation:   quotationRows(form, label, tempID),
			Attachments: attachments,
		})

		form.Installments[idx].Materialized = true
		form.Installments[idx].OrderLabel = label
	}

	return out
}

// Mesh builds the single payload of a save without splitting: every complete
// installment renumbered contiguously, full classification amounts and only
// the attachments still pending upload.
func (s *Splitter) Mesh(session *entity.SessionContext, form *entity.FormSnapshot, opts Options) entity.SubRecord {
	rec := s.header(form, opts)
	rec.TempID = session.TempID
	rec.TempOrderNumber = session.TempID
	rec.OrderNumber = session.OrderNumber
	rec.Invoices = invoicePayloads(form.Invoices)

	total := len(form.Installments)
	for idx, inst := range form.Installments {
		if !inst.Complete() {
			continue
		}
		label := inst.OrderLabel
		if label == "" {
			label = entity.OrderLabel(session.OrderNumber, idx+1, total)
		}
		rec.Installments = append(rec.Installments, entity.InstallmentPayload{
			Number:      len(rec.Installments) + 1,
			DueDate:     inst.DueDate.Wire(),
			Amount:      cloneAmount(inst.Amount),
			OrderNumber: entity.NormalizeOrderLabel(label),
			Created:     inst.Materialized,
		})
	}
	if len(rec.Installments) > 0 {
		first := rec.Installments[0]
		rec.DueDate = first.DueDate
		if first.OrderNumber != "" {
			rec.OrderNumber = first.OrderNumber
		}
	}

	lines := make([]entity.ClassificationPayload, len(form.Classifications))
	for c, line := range form.Classifications {
		lines[c] = classificationPayload(line, line.Amount.Decimal)
	}
	rec.Classifications = lines

	if idx, ok := allocation.ApprovedSupplier(form); ok {
		rec.Beneficiary = form.Suppliers[idx].Name
		rec.BudgetedValue = amountPtr(allocation.SupplierTotal(form, idx))
	}

	var attachments []entity.Attachment
	for _, att := range form.Attachments {
		if att.Pending() {
			attachments = append(attachments, att.Clone())
		}
	}

	return entity.SubRecord{
		Ordinal:     WholeRecord,
		Record:      rec,
		Quotation:   quotationRows(form, session.OrderNumber, session.TempID),
		Attachments: attachments,
	}
}

// classificationShares returns, for every classification line, its n shares
func (s *Splitter) classificationShares(lines []entity.ClassificationLine, n int) [][]decimal.Decimal {
	out := make([][]decimal.Decimal, len(lines))
	for i, line := range lines {
		out[i] = s.alloc.Shares(line.Amount.Decimal, n)
	}
	return out
}

func (s *Splitter) header(form *entity.FormSnapshot, opts Options) entity.RecordPayload {
	r := form.Record
	rec := entity.RecordPayload{
		Entity:         r.Entity,
		RequestType:    r.RequestType,
		Description:    r.Description,
		Justification:  r.Justification,
		PaymentMethod:  string(r.PaymentMethod),
		Bank:           r.Bank.Bank,
		Agency:         r.Bank.Agency,
		Account:        r.Bank.Account,
		AccountHolder:  r.Bank.AccountHolder,
		HolderDocument: r.Bank.HolderDocument,
		PixKeyType:     r.Bank.PixKeyType,
		PixKey:         r.Bank.PixKey,
		AdvancePayment: r.AdvancePayment,
		Status:         opts.Status,
		Beneficiary:    r.Beneficiary,
		AdjustmentNote: r.AdjustmentNote,
	}

	t := form.InvoiceTotals
	if !t.Original.IsZero() || !t.Discounts.IsZero() || !t.Additions.IsZero() {
		rec.InvoiceOriginal = amountPtr(t.Original.Decimal)
		rec.InvoiceDiscounts = amountPtr(t.Discounts.Decimal)
		rec.InvoiceAdditions = amountPtr(t.Additions.Decimal)
		rec.InvoiceTotalToPay = amountPtr(allocation.TotalToPay(t))
	}

	if len(opts.Extra) > 0 {
		rec.Extra = make(map[string]interface{}, len(opts.Extra))
		for k, v := range opts.Extra {
			rec.Extra[k] = v
		}
	}
	return rec
}

func classificationPayload(line entity.ClassificationLine, value decimal.Decimal) entity.ClassificationPayload {
	return entity.ClassificationPayload{
		Account:          line.Account,
		CostCenter:       line.CostCenter,
		OperationalClass: line.OperationalClass,
		Amount:           money.NewAmount(value),
	}
}

func invoicePayloads(lines []entity.InvoiceLine) []entity.InvoicePayload {
	out := make([]entity.InvoicePayload, 0, len(lines))
	for _, l := range lines {
		p := entity.InvoicePayload{Number: l.Number}
		if l.IssueDate != nil {
			p.IssueDate = l.IssueDate.Wire()
		}
		if p.Number == "" && p.IssueDate == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func quotationRows(form *entity.FormSnapshot, orderNumber, tempID string) []entity.QuotationRow {
	table := allocation.PriceTable(form)
	out := make([]entity.QuotationRow, 0, len(table))
	for _, r := range table {
		row := entity.QuotationRow{
			ProductID:       r.ProductID,
			Product:         r.Product,
			Quantity:        r.Quantity,
			Unit:            r.Unit,
			OrderNumber:     orderNumber,
			TempOrderNumber: tempID,
			Version:         1,
			Active:          true,
		}
		if r.HasSupplier {
			approved := r.Approved
			row.SupplierID = r.SupplierID
			row.Supplier = r.Supplier
			row.UnitPrice = amountPtr(r.UnitPrice)
			row.LineTotal = amountPtr(r.LineTotal)
			row.Freight = amountPtr(r.Freight)
			row.Discount = amountPtr(r.Discount)
			row.GrandTotal = amountPtr(r.GrandTotal)
			row.PaymentTerms = r.PaymentTerms
			row.Notes = r.Notes
			row.Approved = &approved
		}
		out = append(out, row)
	}
	return out
}

func amountPtr(d decimal.Decimal) *money.Amount {
	a := money.NewAmount(d)
	return &a
}

func cloneAmount(a *money.Amount) *money.Amount {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Unmaterialize clears the materialized flag of the installments with the
// given ordinals so a later split emits them again.
func Unmaterialize(form *entity.FormSnapshot, ordinals ...int) {
	for _, o := range ordinals {
		if o >= 1 && o <= len(form.Installments) {
			form.Installments[o-1].Materialized = false
		}
	}
}
