package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// LineTotal is quantity times unit price, truncated to two digits
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return money.Truncate(unitPrice.Mul(decimal.NewFromInt(int64(quantity))), money.DefaultDigits)
}

// cellTotal returns the displayed line total of a cell, or derives it
func cellTotal(p entity.Product, c entity.PriceCell) decimal.Decimal {
	if c.LineTotal != nil {
		return c.LineTotal.Decimal
	}
	return LineTotal(p.Quantity, c.UnitPrice.Decimal)
}

func priceCell(s entity.SupplierQuote, idx int) entity.PriceCell {
	if idx < len(s.Prices) {
		return s.Prices[idx]
	}
	return entity.PriceCell{}
}

// SupplierTotal is the grand total of the supplier at index: the displayed
// total when present, otherwise the sum of its line totals plus freight plus
// discount (discounts are entered as negative values).
func SupplierTotal(f *entity.FormSnapshot, supplier int) decimal.Decimal {
	if supplier < 0 || supplier >= len(f.Suppliers) {
		return decimal.Zero
	}

	s := f.Suppliers[supplier]
	if s.GrandTotal != nil {
		return s.GrandTotal.Decimal
	}

	total := decimal.Zero
	for idx, p := range f.Products {
		total = total.Add(cellTotal(p, priceCell(s, idx)))
	}
	total = total.Add(s.Freight.Decimal).Add(s.Discount.Decimal)
	return money.Truncate(total, money.DefaultDigits)
}

// ApprovedSupplier returns the index of the checked supplier, or of the only
// supplier when none is checked. It reports false when the approved supplier
// cannot be determined.
func ApprovedSupplier(f *entity.FormSnapshot) (int, bool) {
	for idx, s := range f.Suppliers {
		if s.Approved {
			return idx, true
		}
	}
	if len(f.Suppliers) == 1 {
		return 0, true
	}
	return -1, false
}

// ApprovedTotal returns the grand total of the approved supplier
func ApprovedTotal(f *entity.FormSnapshot) decimal.NullDecimal {
	idx, ok := ApprovedSupplier(f)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(SupplierTotal(f, idx))
}

// PriceTable flattens the form into one row per product and supplier. With
// no supplier, one row per product is returned with HasSupplier false.
func PriceTable(f *entity.FormSnapshot) []entity.PriceTableRow {
	approved, hasApproved := ApprovedSupplier(f)

	if len(f.Suppliers) == 0 {
		rows := make([]entity.PriceTableRow, 0, len(f.Products))
		for _, p := range f.Products {
			rows = append(rows, entity.PriceTableRow{
				ProductID: p.ID,
				Product:   p.Name,
				Quantity:  p.Quantity,
				Unit:      p.Unit,
			})
		}
		return rows
	}

	rows := make([]entity.PriceTableRow, 0, len(f.Products)*len(f.Suppliers))
	for pIdx, p := range f.Products {
		for sIdx, s := range f.Suppliers {
			c := priceCell(s, pIdx)
			rows = append(rows, entity.PriceTableRow{
				ProductID:    p.ID,
				Product:      p.Name,
				Quantity:     p.Quantity,
				Unit:         p.Unit,
				SupplierID:   s.ID,
				Supplier:     s.Name,
				UnitPrice:    c.UnitPrice.Decimal,
				LineTotal:    cellTotal(p, c),
				Freight:      s.Freight.Decimal,
				Discount:     s.Discount.Decimal,
				GrandTotal:   SupplierTotal(f, sIdx),
				PaymentTerms: s.PaymentTerms,
				Notes:        s.Notes,
				Approved:     hasApproved && sIdx == approved,
				HasSupplier:  true,
			})
		}
	}
	return rows
}

// TotalToPay is the invoice original value minus discounts plus additions
func TotalToPay(t entity.InvoiceTotals) decimal.Decimal {
	total := t.Original.Sub(t.Discounts.Decimal).Add(t.Additions.Decimal)
	return money.Truncate(total, money.DefaultDigits)
}

// Indicators are the remainders shown under the installment and
// classification sections.
type Indicators struct {
	ApprovedTotal   decimal.NullDecimal `json:"approved_total"`
	Installments    Indicator           `json:"installments"`
	Classifications Indicator           `json:"classifications"`
}

// ComputeIndicators compares installments and classification lines with the
// approved supplier total.
func ComputeIndicators(f *entity.FormSnapshot) Indicators {
	total := ApprovedTotal(f)

	installments := make([]decimal.Decimal, 0, len(f.Installments))
	for _, i := range f.Installments {
		if i.Amount != nil {
			installments = append(installments, i.Amount.Decimal)
		}
	}

	classifications := make([]decimal.Decimal, 0, len(f.Classifications))
	for _, c := range f.Classifications {
		classifications = append(classifications, c.Amount.Decimal)
	}

	return Indicators{
		ApprovedTotal:   total,
		Installments:    Remainder(total, installments),
		Classifications: Remainder(total, classifications),
	}
}
