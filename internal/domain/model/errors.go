package model

import "errors"

// Sentinel kinds shared across the domain packages.
var (
	// ErrInsufficientData means the judge answered but the payload carries
	// neither a usable ranklist nor the participants/submissions pair.
	ErrInsufficientData = errors.New("no ranklist data was returned. VJudge may be throttling anonymous API calls")
)
