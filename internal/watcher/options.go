package watcher

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPollInterval   = 250 * time.Millisecond
	DefaultDebounceWindow = 75 * time.Millisecond
)

type options struct {
	pollInterval   time.Duration
	debounceWindow time.Duration
	now            func() time.Time
	log            zerolog.Logger
}

type Option func(*options)

// WithPollInterval sets the fixed sampling rate. Non-positive values are
// ignored.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithDebounceWindow sets how long a change must hold before delivery.
// Negative values are ignored.
func WithDebounceWindow(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounceWindow = d
		}
	}
}

// WithClock replaces the time source used for debounce decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func newOptions(opts []Option) options {
	o := options{
		pollInterval:   DefaultPollInterval,
		debounceWindow: DefaultDebounceWindow,
		now:            time.Now,
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
