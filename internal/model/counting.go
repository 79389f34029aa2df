package model

import (
	"errors"
	"fmt"
)

// SubmissionImageCount is the fixed number of images in every counting
// submission. The remote counting model is trained on exactly four tree
// photographs per request, so the client never sends more or fewer.
const SubmissionImageCount = 4

// Counting errors.
var (
	// ErrWrongImageCount is returned when a submission does not hold exactly
	// SubmissionImageCount image references.
	ErrWrongImageCount = fmt.Errorf("submission must contain exactly %d images", SubmissionImageCount)
	// ErrEmptyImageRef is returned when a submission contains an empty image reference.
	ErrEmptyImageRef = errors.New("submission contains an empty image reference")
	// ErrNegativeCount is returned when the service reports a negative citrus count.
	ErrNegativeCount = errors.New("citrus count cannot be negative")
)

// CountingSubmission is the payload for one counting request: the current
// identity plus exactly four image references. It is built only from a
// complete image set and is immutable once sent.
type CountingSubmission struct {
	// Identity attributes the submission so server-side history can be
	// correlated by phone number.
	Identity Identity

	// Images holds the four image references (local file paths or URIs).
	Images []string
}

// NewCountingSubmission builds a submission after validating the image set.
// It copies the image slice so later mutation of the caller's slice cannot
// change a submission that is already in flight.
func NewCountingSubmission(identity Identity, images []string) (*CountingSubmission, error) {
	if len(images) != SubmissionImageCount {
		return nil, ErrWrongImageCount
	}
	for _, img := range images {
		if img == "" {
			return nil, ErrEmptyImageRef
		}
	}

	copied := make([]string, SubmissionImageCount)
	copy(copied, images)

	return &CountingSubmission{
		Identity: identity,
		Images:   copied,
	}, nil
}

// Validate re-checks the submission invariants. The counting client calls
// this before any network I/O so an invalid submission is never sent.
func (s *CountingSubmission) Validate() error {
	if s == nil || len(s.Images) != SubmissionImageCount {
		return ErrWrongImageCount
	}
	for _, img := range s.Images {
		if img == "" {
			return ErrEmptyImageRef
		}
	}
	return nil
}

// CountEntry is one historical counting record as reported by the service.
type CountEntry struct {
	// Date is the calendar date of the count in "2006-01-02" form.
	Date string `json:"date"`

	// CitrusCount is the aggregate fruit count recorded on that date.
	CitrusCount int `json:"citrusCount"`

	// Phone is the canonical phone number the count belongs to. The service
	// may return mixed-identity history; entries are filtered by phone
	// before display.
	Phone string `json:"phone"`
}

// CountingResult is the response of one counting request.
type CountingResult struct {
	// LatestCount is the aggregate citrus count across the submitted images.
	LatestCount int `json:"latest_count"`

	// History is the server-reported sequence of past counts, in server
	// order. It may contain entries for other identities.
	History []CountEntry `json:"previous_history"`
}

// Validate checks the schema invariants of a decoded service response.
// A response that parses as JSON but violates these rules is treated as a
// service error by the client, not silently accepted.
func (r *CountingResult) Validate() error {
	if r.LatestCount < 0 {
		return fmt.Errorf("latest_count: %w", ErrNegativeCount)
	}
	for i, entry := range r.History {
		if entry.CitrusCount < 0 {
			return fmt.Errorf("previous_history[%d]: %w", i, ErrNegativeCount)
		}
	}
	return nil
}
