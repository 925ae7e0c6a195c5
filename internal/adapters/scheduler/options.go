package scheduler

import (
	"time"

	"github.com/okian/contestboard/pkg/logger"
)

// Option applies a configuration option to the Debouncer.
type Option func(*Debouncer)

// WithDelay sets the quiet period of one channel.
func WithDelay(channel string, d time.Duration) Option {
	return func(db *Debouncer) {
		if channel != "" && d > 0 {
			db.delays[channel] = d
		}
	}
}

// WithDefaultDelay sets the quiet period of channels without their own delay.
func WithDefaultDelay(d time.Duration) Option {
	return func(db *Debouncer) {
		if d > 0 {
			db.defaultDelay = d
		}
	}
}

// WithLogger sets a custom logger for the debouncer.
func WithLogger(l logger.Logger) Option {
	return func(db *Debouncer) {
		if l != nil {
			db.logger = l
		}
	}
}
