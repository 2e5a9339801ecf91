package workflow

import "fmt"

// State is a stage in the weekly shopping workflow.
type State string

const (
	StatePlanned   State = "Planned"
	StateExtracted State = "Extracted"
	StateReviewed  State = "Reviewed"
	StateApproved  State = "Approved"
	StateOrdered   State = "Ordered"
	StateFailed    State = "Failed"
)

// Event is an external occurrence that advances the workflow.
type Event string

const (
	EventExtractionDone  Event = "ExtractionDone"
	EventReviewRequested Event = "ReviewRequested"
	EventApprove         Event = "Approve"
	EventReject          Event = "Reject"
	EventOrderPlaced     Event = "OrderPlaced"
	EventFail            Event = "Fail"
)

// transitions is the full transition table. Anything not listed is illegal:
// in particular there is no way out of Ordered or Failed, and no path skips
// the review step before an order.
var transitions = map[State]map[Event]State{
	StatePlanned: {
		EventExtractionDone: StateExtracted,
		EventFail:           StateFailed,
	},
	StateExtracted: {
		EventReviewRequested: StateReviewed,
		EventFail:            StateFailed,
	},
	StateReviewed: {
		EventApprove: StateApproved,
		EventReject:  StateFailed,
		EventFail:    StateFailed,
	},
	StateApproved: {
		EventOrderPlaced: StateOrdered,
		EventFail:        StateFailed,
	},
}

// Run tracks one week's pass through the workflow.
type Run struct {
	PeriodID string
	state    State
	cause    error
}

// NewRun starts a run in the Planned state.
func NewRun(periodID string) *Run {
	return &Run{PeriodID: periodID, state: StatePlanned}
}

// State returns the current state.
func (r *Run) State() State {
	return r.state
}

// Cause returns the error that moved the run to Failed, if any.
func (r *Run) Cause() error {
	return r.cause
}

// Apply advances the run by one event. Illegal transitions are rejected and
// leave the state unchanged.
func (r *Run) Apply(event Event) error {
	next, ok := transitions[r.state][event]
	if !ok {
		return fmt.Errorf("illegal transition: %s in state %s", event, r.state)
	}
	r.state = next
	return nil
}

// fail moves the run to Failed (when legal) and remembers why.
func (r *Run) fail(cause error) {
	if err := r.Apply(EventFail); err == nil {
		r.cause = cause
	}
}
