package model

import "time"

// ReportDateLayout is the date format used on reports and the wire.
const ReportDateLayout = "2006-01-02"

// Report is the immutable farm report produced at the end of a counting
// session. It combines farm metadata, the latest count, and the identity's
// display name.
//
// Design decision: CitrusCountPerAcre is a method rather than a stored
// field. Recomputing the derived value from its inputs means the report can
// never drift into a state where the arithmetic is inconsistent with the
// fields it was derived from.
type Report struct {
	// Date is the calendar date the report was generated.
	Date time.Time `json:"-"`

	// FarmerName is the identity's display name.
	FarmerName string `json:"farmerName"`

	// CitrusCountPerTree is the latest aggregate count from the service.
	CitrusCountPerTree int `json:"citrusCountPerTree"`

	// TotalTrees is the farm's tree count from FarmMetadata.
	TotalTrees int `json:"totalTrees"`

	// History is the counting history already filtered to the report's
	// identity, in server order.
	History []CountEntry `json:"history,omitempty"`
}

// CitrusCountPerAcre returns the derived per-acre estimate:
// CitrusCountPerTree multiplied by TotalTrees. Both inputs are non-negative
// integers, so the arithmetic has no rounding ambiguity.
func (r *Report) CitrusCountPerAcre() int {
	return r.CitrusCountPerTree * r.TotalTrees
}

// DateString returns the report date in the wire format.
func (r *Report) DateString() string {
	return r.Date.Format(ReportDateLayout)
}
