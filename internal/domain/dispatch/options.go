package dispatch

import (
	"time"

	"github.com/okian/scoring/pkg/logger"
)

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for unexpected faults.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithClock overrides the time source used for date checks.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithStrictInterests makes clients_interests answer 404 when none of the
// requested ids has stored interests.
func WithStrictInterests(strict bool) Option {
	return func(d *Dispatcher) {
		d.strict = strict
	}
}
