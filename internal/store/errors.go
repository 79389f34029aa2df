package store

import "errors"

// Store errors.
// These are returned by the typed accessors so callers can distinguish
// "value absent" from real storage failures with errors.Is().
var (
	// ErrKeyNotFound is returned when a key has no value in the store.
	ErrKeyNotFound = errors.New("key not found in local store")

	// ErrNotLoggedIn is returned when no identity is cached locally.
	// The user must run the login or signup command first.
	ErrNotLoggedIn = errors.New("not logged in: run 'citruscounter login' first")

	// ErrNoFarmMetadata is returned when farm metadata has not been saved
	// yet. The user supplies it via the farm command or count flags.
	ErrNoFarmMetadata = errors.New("no farm metadata saved: set it with 'citruscounter farm'")

	// ErrNoLastCount is returned when no counting session has completed yet.
	ErrNoLastCount = errors.New("no count recorded yet")
)
