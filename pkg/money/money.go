// Package money parses and renders monetary text in the Brazilian decimal
// format ("1.234,56") with controllable precision.
//
// Parsing is total: malformed text degrades to zero or to the best partial
// number, it never returns an error. Fraction digits are truncated by slicing
// the text, never rounded.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDigits is the number of fraction digits carried by money fields.
const DefaultDigits = 2

var nonNumeric = regexp.MustCompile(`[^\d.,\-]`)

// Parse converts free-form numeric text into a decimal, keeping every
// fraction digit present in the input.
func Parse(input string) decimal.Decimal {
	return parse(input, -1)
}

// ParseDigits converts numeric text into a decimal truncated to nd fraction
// digits.
func ParseDigits(input string, nd int) decimal.Decimal {
	if nd < 0 {
		nd = 0
	}
	return parse(input, nd)
}

// Truncate cuts d to nd fraction digits the same way ParseDigits does.
func Truncate(d decimal.Decimal, nd int) decimal.Decimal {
	return d.Truncate(int32(nd))
}

func parse(input string, nd int) decimal.Decimal {
	neg, intPart, fracPart := normalize(input)
	if nd >= 0 && len(fracPart) > nd {
		fracPart = fracPart[:nd]
	}
	if intPart == "" {
		intPart = "0"
	}

	text := intPart
	if fracPart != "" {
		text += "." + fracPart
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		d = d.Neg()
	}
	return d
}

// normalize reduces input to its sign, integer digits and fraction digits.
//
// More than one "." or more than one "," means every separator groups
// thousands. With exactly one of each, the later one is the decimal point.
// A lone "," is the decimal point.
func normalize(input string) (neg bool, intPart, fracPart string) {
	clean := nonNumeric.ReplaceAllString(input, "")
	neg = strings.HasPrefix(clean, "-")
	clean = strings.ReplaceAll(clean, "-", "")

	dots := strings.Count(clean, ".")
	commas := strings.Count(clean, ",")

	switch {
	case dots > 1 || commas > 1:
		clean = strings.NewReplacer(".", "", ",", "").Replace(clean)
	case dots == 1 && commas == 1:
		if strings.LastIndex(clean, ".") > strings.LastIndex(clean, ",") {
			clean = strings.Replace(clean, ",", "", 1)
		} else {
			clean = strings.Replace(clean, ".", "", 1)
			clean = strings.Replace(clean, ",", ".", 1)
		}
	case commas == 1:
		clean = strings.Replace(clean, ",", ".", 1)
	}

	intPart, fracPart, _ = strings.Cut(clean, ".")
	return neg, intPart, fracPart
}

// Format renders d with exactly nd fraction digits joined to the integer
// part by a comma. Extra digits are truncated and missing ones zero-padded.
func Format(d decimal.Decimal, nd int) string {
	intPart, fracPart, _ := strings.Cut(d.Abs().String(), ".")
	return render(d.Sign() < 0, intPart, fracPart, nd)
}

// FormatString parses input and renders it with nd fraction digits.
// Text without digits renders as zero ("0,00").
func FormatString(input string, nd int) string {
	return Format(Parse(input), nd)
}

func render(neg bool, intPart, fracPart string, nd int) string {
	if nd < 0 {
		nd = 0
	}
	if len(fracPart) > nd {
		fracPart = fracPart[:nd]
	} else {
		fracPart += strings.Repeat("0", nd-len(fracPart))
	}
	if intPart == "" {
		intPart = "0"
	}

	out := intPart
	if nd > 0 {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
