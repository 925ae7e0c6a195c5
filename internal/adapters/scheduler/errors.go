package scheduler

import "errors"

// Sentinel kinds for scheduler errors.
var (
	ErrClosed      = errors.New("debouncer is shut down")
	ErrNilAction   = errors.New("debounced action is nil")
	ErrEmptyChannel = errors.New("debounce channel is empty")
)
