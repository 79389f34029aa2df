package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionReset is returned by a submission whose session was reset
	// while the request was on the wire. The result has been discarded.
	ErrSessionReset = errors.New("session was reset during submission")

	// ErrNoResult is returned when a report is requested before any
	// counting result has arrived.
	ErrNoResult = errors.New("no counting result available yet")

	// ErrNoFailure is returned when Retry is called but the session is
	// not in the Error state.
	ErrNoFailure = errors.New("nothing to retry: session has no failed submission")
)

// InvalidTransitionError reports an operation that is not allowed in the
// session's current state.
type InvalidTransitionError struct {
	// Op is the operation that was attempted.
	Op string

	// State is the state the session was in.
	State State
}

// Error returns a human-readable representation of the error.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while session is %s", e.Op, e.State)
}

// IncompleteImageSetError reports a submission attempt with empty image
// slots. EmptySlots identifies which of the four positions still need an
// image, so callers can tell the user exactly what is missing.
type IncompleteImageSetError struct {
	// EmptySlots holds the zero-based indexes of the unfilled slots.
	EmptySlots []int
}

// Error returns a human-readable representation of the error.
func (e *IncompleteImageSetError) Error() string {
	return fmt.Sprintf("cannot submit: %d image slot(s) still empty: %v", len(e.EmptySlots), e.EmptySlots)
}
