package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrStoreDown     = errors.New("store unreachable")
	ErrNoDispatcher  = errors.New("dispatcher is nil")
	ErrEncodeFailure = errors.New("encode response failed")
)

// WrapKind tags err with an operation name and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind builds an error carrying only a sentinel kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}
