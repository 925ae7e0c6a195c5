package elo

import "errors"

// ErrUnknownMode is returned when a scoring mode name is not recognised.
var ErrUnknownMode = errors.New("unknown elo mode")
