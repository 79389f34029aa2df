package counting

import (
	"errors"
	"fmt"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not resolved yet. The duplicate call performs no network
// I/O and does not disturb the outstanding submission.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ServiceError is returned when the counting service answered and rejected
// the request, or answered with a body that does not match the expected
// schema. The message is surfaced to the user verbatim.
type ServiceError struct {
	// Code is the HTTP status code of the response.
	Code int

	// Message is the server-provided error message, or a schema
	// description when the body was malformed.
	Message string
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("counting service error (HTTP %d): %s", e.Code, e.Message)
}

// NetworkError is returned when no usable response arrived: timeouts, DNS
// failures, connection resets. These are surfaced generically; the wrapped
// transport error is kept for logs.
type NetworkError struct {
	// Op names the operation that failed (e.g. "submit", "generate-report").
	Op string

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying transport error to errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
