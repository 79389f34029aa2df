package imageset

import (
	"errors"
	"fmt"
)

// Image set errors.
var (
	// ErrSlotOutOfRange is returned when a slot index is outside [0, 3].
	ErrSlotOutOfRange = fmt.Errorf("slot index out of range: must be between 0 and %d", SlotCount-1)

	// ErrEmptyRef is returned when an empty image reference is assigned to
	// a slot. A slot empties only through Reset, never through assignment.
	ErrEmptyRef = errors.New("image reference cannot be empty")

	// ErrPickCancelled is returned by a Picker when the user cancels
	// selection. The affected slot is left unchanged.
	ErrPickCancelled = errors.New("image selection cancelled")

	// ErrImageNotFound is returned when an image reference does not resolve
	// to a readable file.
	ErrImageNotFound = errors.New("image file not found")

	// ErrImageTooLarge is returned when an image file exceeds the
	// configured size limit.
	ErrImageTooLarge = errors.New("image file exceeds the size limit")
)
