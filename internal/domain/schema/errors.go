package schema

import "errors"

// ErrInvalid marks a payload that failed schema validation.
var ErrInvalid = errors.New("invalid payload")
