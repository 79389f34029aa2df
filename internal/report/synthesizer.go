package report

import (
	"fmt"
	"time"

	"github.com/citruscounter/citruscounter/internal/history"
	"github.com/citruscounter/citruscounter/internal/model"
)

// Build assembles an immutable report from a counting result, the logged-in
// identity, and the farm metadata. It fails with ErrIncompleteData when any
// input is missing rather than producing a report with holes in it.
//
// Design decision: the per-acre estimate is never computed here. It lives on
// model.Report as a derived method so that no code path can store a value
// that disagrees with the count and tree inputs.
func Build(result *model.CountingResult, identity model.Identity, farm model.FarmMetadata, date time.Time) (*model.Report, error) {
	if result == nil || identity.Name == "" {
		return nil, ErrIncompleteData
	}
	if farm.TotalTrees <= 0 {
		return nil, fmt.Errorf("%w: total trees must be set", ErrIncompleteData)
	}
	if result.LatestCount < 0 {
		return nil, model.ErrNegativeCount
	}

	return &model.Report{
		Date:               date,
		FarmerName:         identity.Name,
		CitrusCountPerTree: result.LatestCount,
		TotalTrees:         farm.TotalTrees,
		History:            history.FilterForIdentity(result, identity),
	}, nil
}
