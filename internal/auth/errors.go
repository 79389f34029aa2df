package auth

import "errors"

// Auth client errors.
var (
	// ErrEmptyPassword is returned when the password is empty.
	// Caught client-side; an empty password is never sent to the backend.
	ErrEmptyPassword = errors.New("password cannot be empty")
)
