package service

import (
	"errors"

	"github.com/okian/contestboard/internal/adapters/judge"
	"github.com/okian/contestboard/internal/domain/model"
)

// Sentinel kinds for session errors.
var (
	ErrNoContests     = errors.New("please enter at least one contest ID")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotCached      = errors.New("contest not loaded")
)

// InsufficientDataMessage is shown when the judge answers without standings.
const InsufficientDataMessage = "No ranklist data was returned. VJudge may be throttling anonymous API calls."

// UserMessage renders a per-contest error for display.
func UserMessage(err error) string {
	var fe *judge.FetchError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrInsufficientData):
		return InsufficientDataMessage
	case errors.As(err, &fe):
		return fe.Error()
	default:
		return err.Error()
	}
}
