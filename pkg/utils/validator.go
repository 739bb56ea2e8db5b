package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// OnlyDigits strips punctuation from a document number
func OnlyDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// ValidateDocument validates a CPF (11 digits) or CNPJ (14 digits),
// including both check digits. Punctuation is ignored.
func ValidateDocument(doc string) error {
	digits := OnlyDigits(doc)
	switch len(digits) {
	case 11:
		if !validCPF(digits) {
			return fmt.Errorf("invalid CPF: %s", doc)
		}
	case 14:
		if !validCNPJ(digits) {
			return fmt.Errorf("invalid CNPJ: %s", doc)
		}
	default:
		return fmt.Errorf("document must have 11 or 14 digits: %s", doc)
	}
	return nil
}

func validCPF(d string) bool {
	if strings.Count(d, d[:1]) == len(d) {
		return false
	}
	return checkDigit(d[:9], []int{10, 9, 8, 7, 6, 5, 4, 3, 2}) == d[9] &&
		checkDigit(d[:10], []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}) == d[10]
}

func validCNPJ(d string) bool {
	if strings.Count(d, d[:1]) == len(d) {
		return false
	}
	return checkDigit(d[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) == d[12] &&
		checkDigit(d[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) == d[13]
}

// checkDigit computes the mod 11 check digit shared by CPF and CNPJ
func checkDigit(d string, weights []int) byte {
	sum := 0
	for i, w := range weights {
		sum += int(d[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
