package judge

import (
	"errors"
	"fmt"
)

// Sentinel kinds for fetch errors.
var (
	ErrNotFound = errors.New("contest not found or private")
	ErrNetwork  = errors.New("network error")
	ErrDecode   = errors.New("unreadable contest payload")
)

// FetchError describes a failed contest fetch. Kind is one of the sentinel
// errors above; Err carries the underlying cause when there is one.
type FetchError struct {
	ContestID string
	Kind      error
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrNotFound):
		return fmt.Sprintf("Contest %s not found or is private", e.ContestID)
	case errors.Is(e.Kind, ErrNetwork):
		return fmt.Sprintf("Contest %s not found or network error", e.ContestID)
	case errors.Is(e.Kind, ErrDecode):
		return fmt.Sprintf("Contest %s returned an unreadable response", e.ContestID)
	default:
		return fmt.Sprintf("Contest %s could not be fetched", e.ContestID)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
