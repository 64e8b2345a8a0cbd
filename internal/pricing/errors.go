package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a caller contract violation. It is never used for
// incomplete user input; calculators that can be incomplete return a nil result.
var ErrInvalidInput = errors.New("invalid pricing input")

// InputError describes which input broke the contract and why.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
