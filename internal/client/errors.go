package client

import "errors"

// Sentinel errors returned by the client.
var (
	ErrUnhealthy   = errors.New("service unhealthy")
	ErrBadReply    = errors.New("malformed reply")
	ErrMethodError = errors.New("method failed")
	ErrNoRequests  = errors.New("no requests to run")
)
