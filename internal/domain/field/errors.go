package field

import "errors"

// ErrInvalid is the kind of every field validation failure.
var ErrInvalid = errors.New("invalid field value")

// Error describes why a single field failed its check.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Reason
}

// Unwrap lets callers match with errors.Is(err, ErrInvalid).
func (e *Error) Unwrap() error {
	return ErrInvalid
}
