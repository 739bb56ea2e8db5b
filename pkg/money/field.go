package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field is a mutable input value. Format keeps the text it replaced so that
// Focus can hand the raw number back when the input is edited again.
type Field struct {
	Value string

	original    string
	hasOriginal bool
}

// NewField returns a field holding value.
func NewField(value string) *Field {
	return &Field{Value: value}
}

// Parse reads the field, writes the parsed numeric text back in place and
// returns the number. A negative nd keeps every fraction digit.
func (f *Field) Parse(nd int) decimal.Decimal {
	d := parse(f.Value, nd)
	f.Value = d.String()
	return d
}

// Format renders the field in place with nd fraction digits and returns the
// rendered text. An empty field is left untouched and reported as zero.
func (f *Field) Format(nd int) string {
	f.original, f.hasOriginal = "", false

	if strings.TrimSpace(f.Value) == "" {
		return Format(decimal.Zero, nd)
	}

	f.original, f.hasOriginal = f.Value, true
	f.Value = FormatString(f.Value, nd)
	return f.Value
}

// Focus restores the text saved by the last Format call.
func (f *Field) Focus() {
	if f.hasOriginal {
		f.Value = f.original
	}
}

// Original returns the text saved by the last Format call.
func (f *Field) Original() (string, bool) {
	return f.original, f.hasOriginal
}
