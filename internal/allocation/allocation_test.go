package allocation

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amt(s string) *money.Amount {
	a := money.NewAmount(d(s))
	return &a
}

func strs(ds []decimal.Decimal) []string {
	out := make([]string, len(ds))
	for i, x := range ds {
		out[i] = money.Format(x, 2)
	}
	return out
}

func TestShares_ThousandByThree(t *testing.T) {
	t.Run("truncate each", func(t *testing.T) {
		got := Shares(d("1000"), 3, 2, TruncateEach)
		assert.Equal(t, []string{"333,33", "333,33", "333,33"}, strs(got))
		assert.True(t, sum(got).Equal(d("999.99")))
	})

	t.Run("remainder on last", func(t *testing.T) {
		got := Shares(d("1000"), 3, 2, RemainderOnLast)
		assert.Equal(t, []string{"333,33", "333,33", "333,34"}, strs(got))
		assert.True(t, sum(got).Equal(d("1000")))
	})
}

func TestShares_EdgeCases(t *testing.T) {
	assert.Nil(t, Shares(d("10"), 0, 2, TruncateEach))
	assert.Equal(t, []string{"10,00"}, strs(Shares(d("10"), 1, 2, TruncateEach)))
	assert.Equal(t, []string{"-3,33", "-3,33", "-3,33"}, strs(Shares(d("-10"), 3, 2, TruncateEach)))
	assert.Equal(t, []string{"3,3", "3,3", "3,4"}, strs3(Shares(d("10"), 3, 1, RemainderOnLast)))
}

func strs3(ds []decimal.Decimal) []string {
	out := make([]string, len(ds))
	for i, x := range ds {
		out[i] = money.Format(x, 1)
	}
	return out
}

func TestShares_DriftBound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	unit := d("0.01")

	for i := 0; i < 300; i++ {
		total := decimal.New(rng.Int63n(100_000_000), -2)
		n := 1 + rng.Intn(24)

		shares := Shares(total, n, 2, TruncateEach)
		require.Len(t, shares, n)

		drift := total.Sub(sum(shares)).Abs()
		bound := unit.Mul(decimal.NewFromInt(int64(n)))
		assert.True(t, drift.LessThanOrEqual(bound), "total %s / %d drifted %s", total, n, drift)

		exact := Shares(total, n, 2, RemainderOnLast)
		assert.True(t, sum(exact).Equal(total), "total %s / %d does not add up", total, n)
	}
}

func sum(ds []decimal.Decimal) decimal.Decimal {
	out := decimal.Zero
	for _, x := range ds {
		out = out.Add(x)
	}
	return out
}

func TestAllocator(t *testing.T) {
	a := New("", -1)
	assert.Equal(t, TruncateEach, a.Policy())
	assert.Equal(t, 2, a.Digits())

	a = New(RemainderOnLast, 2)
	assert.Equal(t, []string{"50,00", "50,00"}, strs(a.Shares(d("100"), 2)))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, TruncateEach, p)

	p, err = ParsePolicy(" Remainder_On_Last ")
	require.NoError(t, err)
	assert.Equal(t, RemainderOnLast, p)

	_, err = ParsePolicy("bankers")
	assert.Error(t, err)
}

func TestRemainder(t *testing.T) {
	tests := []struct {
		name     string
		total    decimal.NullDecimal
		parts    []decimal.Decimal
		display  string
		balanced bool
	}{
		{"balanced", decimal.NewNullDecimal(d("1000")), []decimal.Decimal{d("333.33"), d("333.33"), d("333.34")}, "0,00", true},
		{"short", decimal.NewNullDecimal(d("1000")), []decimal.Decimal{d("333.33"), d("333.33"), d("333.33")}, "0,01", false},
		{"over", decimal.NewNullDecimal(d("100")), []decimal.Decimal{d("60"), d("50")}, "-10,00", false},
		{"no parts", decimal.NewNullDecimal(d("12.5")), nil, "12,50", false},
		{"fractions beyond cents are dropped", decimal.NewNullDecimal(d("10")), []decimal.Decimal{d("3.339"), d("6.65")}, "0,01", false},
		{"unknown total", decimal.NullDecimal{}, []decimal.Decimal{d("1")}, "-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remainder(tt.total, tt.parts)
			assert.Equal(t, tt.display, got.Display())
			assert.Equal(t, tt.balanced, got.Balanced)
		})
	}
}

func quoteForm() *entity.FormSnapshot {
	return &entity.FormSnapshot{
		Products: []entity.Product{
			{ID: "p1", Name: "Cadeira", Quantity: 4, Unit: "un"},
			{ID: "p2", Name: "Mesa", Quantity: 1, Unit: "un"},
		},
		Suppliers: []entity.SupplierQuote{
			{
				ID:   "s1",
				Name: "ACME",
				Prices: []entity.PriceCell{
					{UnitPrice: *amt("100")},
					{UnitPrice: *amt("500")},
				},
				Freight:  *amt("50"),
				Discount: *amt("-30"),
			},
			{
				ID:   "s2",
				Name: "Moveis Sul",
				Prices: []entity.PriceCell{
					{UnitPrice: *amt("90"), LineTotal: amt("360")},
				},
				GrandTotal: amt("999.90"),
			},
		},
	}
}

func TestSupplierTotal(t *testing.T) {
	f := quoteForm()

	assert.Equal(t, "920,00", money.Format(SupplierTotal(f, 0), 2))
	assert.Equal(t, "999,90", money.Format(SupplierTotal(f, 1), 2))
	assert.True(t, SupplierTotal(f, 5).IsZero())
}

func TestApprovedSupplier(t *testing.T) {
	f := quoteForm()

	_, ok := ApprovedSupplier(f)
	assert.False(t, ok, "two unchecked suppliers")
	assert.False(t, ApprovedTotal(f).Valid)

	f.Suppliers[1].Approved = true
	idx, ok := ApprovedSupplier(f)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	single := &entity.FormSnapshot{Suppliers: f.Suppliers[:1], Products: f.Products}
	single.Suppliers[0].Approved = false
	idx, ok = ApprovedSupplier(single)
	require.True(t, ok, "a single supplier is implicitly approved")
	assert.Equal(t, 0, idx)
	assert.Equal(t, "920,00", money.Format(ApprovedTotal(single).Decimal, 2))
}

func TestPriceTable(t *testing.T) {
	f := quoteForm()
	f.Suppliers[0].Approved = true

	rows := PriceTable(f)
	require.Len(t, rows, 4)

	assert.Equal(t, "Cadeira", rows[0].Product)
	assert.Equal(t, "ACME", rows[0].Supplier)
	assert.True(t, rows[0].LineTotal.Equal(d("400")))
	assert.True(t, rows[0].Approved)
	assert.True(t, rows[0].GrandTotal.Equal(d("920")))

	assert.Equal(t, "Moveis Sul", rows[1].Supplier)
	assert.True(t, rows[1].LineTotal.Equal(d("360")))
	assert.False(t, rows[1].Approved)

	// the second supplier quoted no price for the second product
	assert.Equal(t, "Mesa", rows[3].Product)
	assert.True(t, rows[3].UnitPrice.IsZero())
	assert.True(t, rows[3].HasSupplier)
}

func TestPriceTable_NoSuppliers(t *testing.T) {
	f := &entity.FormSnapshot{Products: []entity.Product{{Name: "Papel", Quantity: 10}}}

	rows := PriceTable(f)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].HasSupplier)
	assert.Equal(t, 10, rows[0].Quantity)
}

func TestTotalToPay(t *testing.T) {
	got := TotalToPay(entity.InvoiceTotals{
		Original:  *amt("1000"),
		Discounts: *amt("150.5"),
		Additions: *amt("20.25"),
	})
	assert.Equal(t, "869,75", money.Format(got, 2))
}

func TestComputeIndicators(t *testing.T) {
	f := quoteForm()
	f.Suppliers[0].Approved = true
	f.Installments = []entity.Installment{{Number: 1, Amount: amt("460")}, {Number: 2}}
	f.Classifications = []entity.ClassificationLine{{Amount: *amt("920")}}

	got := ComputeIndicators(f)
	assert.True(t, got.ApprovedTotal.Valid)
	assert.Equal(t, "460,00", got.Installments.Display())
	assert.False(t, got.Installments.Balanced)
	assert.True(t, got.Classifications.Balanced)
}
