package entity

import "errors"

var (
	// ErrLastClassification is returned when removing the only classification line
	ErrLastClassification = errors.New("at least one classification line is required")

	// ErrInstallmentNotFound is returned when an installment number does not exist
	ErrInstallmentNotFound = errors.New("installment not found")
)
