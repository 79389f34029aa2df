package model

import (
	"errors"
	"testing"
	"time"
)

// TestFarmMetadataValidate tests farm metadata validation.
func TestFarmMetadataValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts positive values", func(t *testing.T) {
		t.Parallel()

		md := FarmMetadata{LandSizeAcres: 5, TotalTrees: 50}
		if err := md.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects non-positive land size", func(t *testing.T) {
		t.Parallel()

		md := FarmMetadata{LandSizeAcres: 0, TotalTrees: 50}
		if err := md.Validate(); !errors.Is(err, ErrInvalidLandSize) {
			t.Errorf("expected ErrInvalidLandSize, got %v", err)
		}
	})

	t.Run("rejects non-positive tree count", func(t *testing.T) {
		t.Parallel()

		md := FarmMetadata{LandSizeAcres: 5, TotalTrees: -1}
		if err := md.Validate(); !errors.Is(err, ErrInvalidTotalTrees) {
			t.Errorf("expected ErrInvalidTotalTrees, got %v", err)
		}
	})
}

// TestReportCitrusCountPerAcre tests the derived per-acre computation.
func TestReportCitrusCountPerAcre(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		perTree int
		trees   int
		want    int
	}{
		{name: "typical values", perTree: 120, trees: 20, want: 2400},
		{name: "zero count", perTree: 0, trees: 50, want: 0},
		{name: "single tree", perTree: 33, trees: 1, want: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &Report{CitrusCountPerTree: tt.perTree, TotalTrees: tt.trees}
			if got := r.CitrusCountPerAcre(); got != tt.want {
				t.Errorf("CitrusCountPerAcre() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestReportDateString tests the wire format of the report date.
func TestReportDateString(t *testing.T) {
	t.Parallel()

	r := &Report{Date: time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)}
	if got := r.DateString(); got != "2024-01-15" {
		t.Errorf("DateString() = %q, want %q", got, "2024-01-15")
	}
}
