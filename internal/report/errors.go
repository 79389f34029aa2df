package report

import "errors"

var (
	// ErrIncompleteData is returned when a report is requested before all
	// of its inputs exist: a counting result, a farmer name, and farm
	// metadata with a positive tree count.
	ErrIncompleteData = errors.New("cannot build report: counting result or farm metadata missing")

	// ErrNoDataDir is returned when the HTML renderer has nowhere to
	// write the rendered document.
	ErrNoDataDir = errors.New("report output directory is not set")
)
