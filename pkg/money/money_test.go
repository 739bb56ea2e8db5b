package money

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "0"},
		{"no digits", "abc", "0"},
		{"only sign", "-", "0"},
		{"plain integer", "1234", "1234"},
		{"brazilian grouping", "1.234,56", "1234.56"},
		{"us grouping", "1,234.56", "1234.56"},
		{"repeated dots group thousands", "12.34.56", "123456"},
		{"repeated commas group thousands", "1,234,567", "1234567"},
		{"single comma is decimal point", "10,5", "10.5"},
		{"single dot is decimal point", "1234.5", "1234.5"},
		{"currency prefix", "R$ 1.000,00", "1000"},
		{"negative", "-5", "-5"},
		{"negative with grouping", "-1.234,56", "-1234.56"},
		{"fraction only", ",5", "0.5"},
		{"stray minus inside", "12-3", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "Parse(%q) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestParseDigits_Truncates(t *testing.T) {
	tests := []struct {
		input string
		nd    int
		want  string
	}{
		{"10,999", 2, "10.99"},
		{"-10,999", 2, "-10.99"},
		{"333.3333333", 2, "333.33"},
		{"7", 2, "7"},
		{"1,5", 0, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDigits(tt.input, tt.nd)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		input string
		nd    int
		want  string
	}{
		{"", 2, "0,00"},
		{"xyz", 2, "0,00"},
		{"-5", 2, "-5,00"},
		{"1234.5", 2, "1234,50"},
		{"1.234,567", 2, "1234,56"},
		{",5", 2, "0,50"},
		{"12", 0, "12"},
		{"0,1", 4, "0,1000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatString(tt.input, tt.nd))
		})
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	samples := []decimal.Decimal{
		decimal.Zero,
		decimal.RequireFromString("0.005"),
		decimal.RequireFromString("-0.009"),
		decimal.RequireFromString("999999999999.99"),
		decimal.RequireFromString("-123456.789"),
	}
	for i := 0; i < 500; i++ {
		// up to 10^12 with up to 5 fraction digits
		units := r.Int63n(100000000000000000)
		if r.Intn(2) == 0 {
			units = -units
		}
		samples = append(samples, decimal.New(units, -5))
	}

	for _, x := range samples {
		got := Parse(Format(x, 2))
		assert.True(t, got.Equal(x.Truncate(2)), "round trip of %s gave %s", x, got)
	}
}

func TestField_FormatAndFocus(t *testing.T) {
	f := NewField("1234.5")

	assert.Equal(t, "1234,50", f.Format(2))
	assert.Equal(t, "1234,50", f.Value)

	original, ok := f.Original()
	require.True(t, ok)
	assert.Equal(t, "1234.5", original)

	f.Focus()
	assert.Equal(t, "1234.5", f.Value)
}

func TestField_FormatEmpty(t *testing.T) {
	f := NewField("")

	assert.Equal(t, "0,00", f.Format(2))
	assert.Equal(t, "", f.Value)

	_, ok := f.Original()
	assert.False(t, ok)

	f.Focus()
	assert.Equal(t, "", f.Value)
}

func TestField_ParseWritesBack(t *testing.T) {
	f := NewField("R$ 1.234,567")

	got := f.Parse(2)

	assert.True(t, got.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "1234.56", f.Value)
}

func TestAmount_JSON(t *testing.T) {
	payload := struct {
		Valor Amount `json:"Valor"`
	}{Valor: NewAmount(decimal.RequireFromString("333.3333"))}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Valor": 333.33}`, string(data))

	var decoded struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 10.5, "b": "1000.00", "c": "", "d": null}`), &decoded))
	assert.True(t, decoded.A.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, decoded.B.Equal(decimal.RequireFromString("1000")))
	assert.True(t, decoded.C.IsZero())
	assert.True(t, decoded.D.IsZero())

	exact := []struct {
		in   string
		want string
	}{
		{`1e-7`, "0.0000001"},
		{`1.5e3`, "1500"},
		{`2E2`, "200"},
		{`-3.25E+1`, "-32.5"},
		{`"1.234,56"`, "1234.56"},
	}
	for _, tt := range exact {
		t.Run(tt.in, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.True(t, a.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", a, tt.want)
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "1.234,56", Display(decimal.RequireFromString("1234.567")))
	assert.Equal(t, "R$ 0,00", Currency(decimal.Zero))
}
