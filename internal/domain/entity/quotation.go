package entity

import (
	"github.com/shopspring/decimal"

	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// Product is one row of the price table.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// SupplierQuote is one supplier column of the price table. Prices is aligned
// with FormSnapshot.Products by index.
type SupplierQuote struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Approved     bool          `json:"approved"`
	Prices       []PriceCell   `json:"prices"`
	Freight      money.Amount  `json:"freight"`
	Discount     money.Amount  `json:"discount"`
	GrandTotal   *money.Amount `json:"grand_total,omitempty"`
	PaymentTerms string        `json:"payment_terms,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

// PriceCell is the unit price a supplier quoted for one product. LineTotal
// is the value displayed next to it; when absent it is derived from the
// product quantity.
type PriceCell struct {
	UnitPrice money.Amount  `json:"unit_price"`
	LineTotal *money.Amount `json:"line_total,omitempty"`
}

// PriceTableRow is one (product, supplier) cell of the price table with the
// supplier level totals repeated on every row.
type PriceTableRow struct {
	ProductID    string
	Product      string
	Quantity     int
	Unit         string
	SupplierID   string
	Supplier     string
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
	Freight      decimal.Decimal
	Discount     decimal.Decimal
	GrandTotal   decimal.Decimal
	PaymentTerms string
	Notes        string
	Approved     bool
	HasSupplier  bool
}
