package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/citruscounter/citruscounter/internal/imageset"
	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/report"
)

// State identifies where a counting session is in its lifecycle.
type State int

const (
	// StateCollecting means the session is gathering images and metadata.
	StateCollecting State = iota

	// StateSubmitting means a submission is on the wire.
	StateSubmitting

	// StateAggregating means a result arrived and is being narrowed to
	// the session's identity.
	StateAggregating

	// StateReportReady means the report has been built and is final.
	StateReportReady

	// StateError means the last submission failed. Retry and Reset are
	// the only ways out.
	StateError
)

// String returns the state name for logs and error messages.
func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateSubmitting:
		return "submitting"
	case StateAggregating:
		return "aggregating"
	case StateReportReady:
		return "report-ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Submitter sends a counting submission to the backend. It is satisfied by
// counting.Client.
type Submitter interface {
	Submit(ctx context.Context, sub *model.CountingSubmission) (*model.CountingResult, error)
}

// Orchestrator drives a single counting session. All methods are safe for
// concurrent use; the network call in Submit runs outside the lock so a
// Reset can interleave with an in-flight submission.
type Orchestrator struct {
	mu sync.Mutex

	state State

	// epoch is bumped on every Reset. A submission remembers the epoch it
	// started under and discards its result if the epoch moved on.
	epoch int

	images    *imageset.Manager
	submitter Submitter
	identity  model.Identity
	farm      *model.FarmMetadata
	result    *model.CountingResult
	rep       *model.Report
	lastErr   error

	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithClock overrides the report date source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates a session for the given identity, starting in the
// Collecting state with four empty image slots.
func NewOrchestrator(identity model.Identity, submitter Submitter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:     StateCollecting,
		images:    imageset.NewManager(),
		submitter: submitter,
		identity:  identity,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// State returns the session's current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err returns the error from the last failed submission, or nil.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// SetImage places an image reference into the given slot. Images can only
// be changed while the session is collecting.
func (o *Orchestrator) SetImage(index int, ref string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateCollecting {
		return &InvalidTransitionError{Op: "set image", State: o.state}
	}
	return o.images.SetSlot(index, ref)
}

// Images returns a snapshot of the current image slots.
func (o *Orchestrator) Images() []imageset.Slot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.images.Slots()
}

// SupplyMetadata records the farm metadata used to finish the report. It is
// accepted in any state except while a submission is on the wire, so a user
// who forgot the tree count can add it after the result arrived.
func (o *Orchestrator) SupplyMetadata(farm model.FarmMetadata) error {
	if err := farm.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateSubmitting {
		return &InvalidTransitionError{Op: "supply metadata", State: o.state}
	}
	o.farm = &farm
	return nil
}

// Metadata returns the supplied farm metadata, or false if none was set.
func (o *Orchestrator) Metadata() (model.FarmMetadata, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.farm == nil {
		return model.FarmMetadata{}, false
	}
	return *o.farm, true
}

// Submit sends the collected images for counting. The session must be
// collecting and all four slots must be filled; otherwise no network
// traffic happens. On success the session moves to Aggregating, on failure
// to Error.
func (o *Orchestrator) Submit(ctx context.Context) (*model.CountingResult, error) {
	o.mu.Lock()
	if o.state != StateCollecting {
		state := o.state
		o.mu.Unlock()
		return nil, &InvalidTransitionError{Op: "submit", State: state}
	}
	if empty := o.images.EmptySlots(); len(empty) > 0 {
		o.mu.Unlock()
		return nil, &IncompleteImageSetError{EmptySlots: empty}
	}

	sub, err := model.NewCountingSubmission(o.identity, o.images.Refs())
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}

	o.state = StateSubmitting
	epoch := o.epoch
	o.mu.Unlock()

	return o.submit(ctx, sub, epoch)
}

// Retry re-sends the failed submission. It is only valid in the Error
// state; the images from the failed attempt are reused unchanged.
func (o *Orchestrator) Retry(ctx context.Context) (*model.CountingResult, error) {
	o.mu.Lock()
	if o.state != StateError {
		o.mu.Unlock()
		return nil, ErrNoFailure
	}

	sub, err := model.NewCountingSubmission(o.identity, o.images.Refs())
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}

	o.state = StateSubmitting
	o.lastErr = nil
	epoch := o.epoch
	o.mu.Unlock()

	return o.submit(ctx, sub, epoch)
}

// submit performs the network call outside the lock and applies the
// outcome, unless the session was reset in the meantime. epoch must be
// read in the same critical section that moved the session to Submitting,
// so a Reset between that transition and the network call is seen too.
func (o *Orchestrator) submit(ctx context.Context, sub *model.CountingSubmission, epoch int) (*model.CountingResult, error) {
	o.logger.Debug("submitting images for counting", "images", len(sub.Images))
	result, err := o.submitter.Submit(ctx, sub)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.epoch != epoch {
		// The user reset while we were waiting. The session already
		// started over, so this outcome belongs to nobody.
		o.logger.Debug("discarding stale submission result")
		return nil, ErrSessionReset
	}

	if err != nil {
		o.state = StateError
		o.lastErr = err
		return nil, err
	}

	o.state = StateAggregating
	o.result = result
	o.logger.Debug("counting result received", "latest_count", result.LatestCount)
	return result, nil
}

// Result returns the counting result, or ErrNoResult if none arrived yet.
func (o *Orchestrator) Result() (*model.CountingResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.result == nil {
		return nil, ErrNoResult
	}
	return o.result, nil
}

// BuildReport assembles the final report from the counting result and the
// supplied farm metadata, moving the session to ReportReady. Missing
// metadata leaves the session aggregating so the caller can supply it and
// try again.
func (o *Orchestrator) BuildReport() (*model.Report, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateReportReady {
		return o.rep, nil
	}
	if o.state != StateAggregating {
		return nil, &InvalidTransitionError{Op: "build report", State: o.state}
	}

	var farm model.FarmMetadata
	if o.farm != nil {
		farm = *o.farm
	}

	rep, err := report.Build(o.result, o.identity, farm, o.now())
	if err != nil {
		return nil, err
	}

	o.state = StateReportReady
	o.rep = rep
	return rep, nil
}

// Reset abandons the session and starts a fresh one in Collecting. Images,
// results, and errors are cleared; farm metadata is kept because it
// describes the farm, not the attempt. Any in-flight submission will find
// the epoch moved and discard its result.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.epoch++
	o.state = StateCollecting
	o.images.Reset()
	o.result = nil
	o.rep = nil
	o.lastErr = nil
	o.logger.Debug("session reset", "epoch", o.epoch)
}
