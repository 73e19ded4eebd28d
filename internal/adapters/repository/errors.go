package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrCorruptRecord    = errors.New("corrupt interests record")
	ErrUnknownBackend   = errors.New("unknown store backend")
	ErrEmptyID          = errors.New("client id must not be empty")
)
