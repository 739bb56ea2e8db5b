package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display renders d with Brazilian thousands grouping ("1.234,56") for
// printed documents. Input fields use Format, which never groups.
func Display(d decimal.Decimal) string {
	f, _ := d.Truncate(DefaultDigits).Float64()
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(number.Decimal(f, number.Scale(DefaultDigits)))
}

// Currency renders d as a Real amount ("R$ 1.234,56").
func Currency(d decimal.Decimal) string {
	return "R$ " + Display(d)
}
