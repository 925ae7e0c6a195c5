package repository

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound       = errors.New("contest not cached")
	ErrEmptyContestID = errors.New("contest id is empty")
)
