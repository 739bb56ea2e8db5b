package workflow

import "errors"

var (
	// ErrUnknownAction is returned when an action is not in the table
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownPage is returned when a page is not in the table
	ErrUnknownPage = errors.New("unknown page")

	// ErrActionNotOffered is returned when a page does not offer an action
	ErrActionNotOffered = errors.New("action not offered on page")
)
