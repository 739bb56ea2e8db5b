// Package allocation divides approved amounts across installments and
// classification lines and rebuilds totals from the price table.
package allocation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// Policy decides what happens to the truncation remainder of a division
type Policy string

const (
	// TruncateEach truncates every share independently. The shares may sum
	// to less than the total by up to count * 10^-digits.
	TruncateEach Policy = "truncate_each"

	// RemainderOnLast gives the truncation remainder to the last share so the
	// shares add up to the total exactly.
	RemainderOnLast Policy = "remainder_on_last"
)

// ParsePolicy maps a configuration value to a Policy. An empty value selects
// TruncateEach.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", TruncateEach:
		return TruncateEach, nil
	case RemainderOnLast:
		return RemainderOnLast, nil
	default:
		return "", fmt.Errorf("unknown rounding policy %q", s)
	}
}

// Allocator divides amounts with a fixed policy and precision
type Allocator struct {
	policy Policy
	digits int
}

// New creates an allocator. Negative digits fall back to two.
func New(policy Policy, digits int) *Allocator {
	if digits < 0 {
		digits = money.DefaultDigits
	}
	if policy == "" {
		policy = TruncateEach
	}
	return &Allocator{policy: policy, digits: digits}
}

// Policy returns the remainder policy
func (a *Allocator) Policy() Policy {
	return a.policy
}

// Digits returns the number of fraction digits kept in every share
func (a *Allocator) Digits() int {
	return a.digits
}

// Shares divides total into count shares
func (a *Allocator) Shares(total decimal.Decimal, count int) []decimal.Decimal {
	return Shares(total, count, a.digits, a.policy)
}

// Shares divides total into count shares truncated to nd fraction digits.
// It returns nil when count is not positive.
func Shares(total decimal.Decimal, count, nd int, policy Policy) []decimal.Decimal {
	if count <= 0 {
		return nil
	}

	share := Share(total, count, nd)
	shares := make([]decimal.Decimal, count)
	for i := range shares {
		shares[i] = share
	}

	if policy == RemainderOnLast {
		rest := share.Mul(decimal.NewFromInt(int64(count - 1)))
		shares[count-1] = total.Sub(rest)
	}
	return shares
}

// Share returns total/count truncated to nd fraction digits. A non positive
// count yields the total itself.
func Share(total decimal.Decimal, count, nd int) decimal.Decimal {
	if count <= 0 {
		return total
	}
	return money.Truncate(total.Div(decimal.NewFromInt(int64(count))), nd)
}

// Indicator is the "still to allocate" figure shown under installments and
// classification lines.
type Indicator struct {
	Known     bool            `json:"known"`
	Remainder decimal.Decimal `json:"remainder"`
	Balanced  bool            `json:"balanced"`
}

// Remainder subtracts every part from total, truncating to two digits after
// each subtraction. An unknown total is never balanced.
func Remainder(total decimal.NullDecimal, parts []decimal.Decimal) Indicator {
	if !total.Valid {
		return Indicator{}
	}

	rest := money.Truncate(total.Decimal, money.DefaultDigits)
	for _, p := range parts {
		rest = money.Truncate(rest.Sub(p), money.DefaultDigits)
	}

	return Indicator{
		Known:     true,
		Remainder: rest,
		Balanced:  rest.IsZero(),
	}
}

// Display renders the remainder in the form format, "-" when unknown
func (i Indicator) Display() string {
	if !i.Known {
		return "-"
	}
	return money.Format(i.Remainder, money.DefaultDigits)
}
