package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal that travels as an unquoted JSON number with two
// fraction digits, the shape the record store expects for money fields.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MarshalJSON renders the amount truncated to two fraction digits.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Truncate(DefaultDigits).StringFixed(DefaultDigits)), nil
}

// UnmarshalJSON accepts numbers, quoted numbers, empty strings and null.
// Bare numbers are decoded exactly, exponent included; quoted text is typed
// input and goes through Parse.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		a.Decimal = decimal.Zero
		return nil
	}

	if !strings.HasPrefix(raw, `"`) {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("money: invalid amount %s: %w", raw, err)
		}
		a.Decimal = d
		return nil
	}

	s := strings.Trim(raw, `"`)
	if s == "" {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = Parse(s)
	return nil
}
