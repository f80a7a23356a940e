package alert

import "errors"

var (
	// ErrValidation is returned for bad or missing input to an operation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when an alert id is unknown.
	ErrNotFound = errors.New("not found")
)
