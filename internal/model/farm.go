package model

import "errors"

// FarmMetadata errors.
var (
	// ErrInvalidLandSize is returned when the land size is not positive.
	ErrInvalidLandSize = errors.New("invalid land size: must be a positive number of acres")
	// ErrInvalidTotalTrees is returned when the tree count is not positive.
	ErrInvalidTotalTrees = errors.New("invalid total trees: must be a positive number")
)

// FarmMetadata describes the single active farm for the current identity.
// It is entered by the user, cached in the local store, and combined with a
// counting result when a report is synthesized.
//
// There is deliberately no multi-farm support: the store keeps exactly one
// FarmMetadata under fixed keys, and a new entry overwrites the previous one.
type FarmMetadata struct {
	// LandSizeAcres is the farm's land size in acres.
	LandSizeAcres int `json:"landSizeAcres"`

	// TotalTrees is the number of citrus trees on the farm.
	TotalTrees int `json:"totalTrees"`
}

// Validate checks that both fields hold positive values.
func (f FarmMetadata) Validate() error {
	if f.LandSizeAcres <= 0 {
		return ErrInvalidLandSize
	}
	if f.TotalTrees <= 0 {
		return ErrInvalidTotalTrees
	}
	return nil
}
