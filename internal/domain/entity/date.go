package entity

import (
	"fmt"
	"strings"
	"time"
)

const (
	inputDateLayout = "2006-01-02"
	wireDateLayout  = "02/01/2006"
)

// Date is a calendar date. It is read from form inputs as yyyy-mm-dd and
// written to the record store as dd/mm/yyyy.
type Date struct {
	time.Time
}

// NewDate returns the date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts both the input layout and the wire layout.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{inputDateLayout, wireDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// Wire renders the date as dd/mm/yyyy.
func (d Date) Wire() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(wireDateLayout)
}

// MarshalJSON renders the date in the input layout.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(inputDateLayout) + `"`), nil
}

// UnmarshalJSON accepts yyyy-mm-dd, dd/mm/yyyy, empty strings and null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
