// package resolve turns raw track references into library entries.
//
// The pipeline per descriptor is normalize → retrieve → score → decide.
// When confidence is insufficient the decision engine suspends on an
// escalation rendezvous until an operator delivers exactly one decision,
// or the run is cancelled.
package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/shared"
)

// Action is an operator decision type.
type Action int

const (
	// ActionAccept accepts the proposed candidate, or the operator-chosen
	// one when the decision carries a Choice.
	ActionAccept Action = iota
	// ActionSkip skips this descriptor.
	ActionSkip
	// ActionSkipAll skips this descriptor and every later low-confidence
	// match in the run.
	ActionSkipAll
	// ActionManualSearch asks the interactive surface to run a gated
	// library-wide search; the follow-up decision carries the pick.
	ActionManualSearch
)

func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionSkip:
		return "skip"
	case ActionSkipAll:
		return "skip_all"
	case ActionManualSearch:
		return "manual_search"
	default:
		return "unknown"
	}
}

// RequestKind distinguishes a confirmation prompt from a manual search.
type RequestKind int

const (
	// ConfirmMatch proposes a best candidate in the [60,80) band.
	ConfirmMatch RequestKind = iota
	// ManualSearch reports that automated retrieval found nothing usable
	// (score under 60, no candidates, or artist not found).
	ManualSearch
)

// Request is one suspended resolution awaiting an operator decision. It
// carries everything the interactive surface needs to render a comparison.
type Request struct {
	Kind       RequestKind
	Descriptor string // human-readable "Title - Artist" form
	Title      string
	Artist     string
	Album      string
	Best       *models.Candidate
	Score      float64
	Actions    []Action
	Reason     string // e.g. "artist not found"

	reply chan Decision
	// abandoned is closed when the suspended worker stops waiting for a
	// reply: it received one, its context was cancelled, or the escalator
	// was torn down.
	abandoned chan struct{}
}

// Decision is the operator's answer to a Request.
type Decision struct {
	Action Action
	// Choice is the operator-selected library entry for a manual search
	// accept. Nil otherwise.
	Choice *models.Candidate
}

// Respond delivers the decision to the suspended worker. The handoff is a
// one-writer/one-reader exchange: responding when no worker is waiting
// (never raised, already answered, or already cancelled) is a programming
// error and is rejected with [shared.ErrNoWaiter].
func (r *Request) Respond(d Decision) error {
	if r.reply == nil {
		return shared.ErrNoWaiter
	}
	select {
	case r.reply <- d:
		return nil
	case <-r.abandoned:
		return shared.ErrNoWaiter
	}
}

// Escalator is the cross-boundary rendezvous between resolution workers
// and the interactive surface. Workers block in raise; the surface reads
// Requests and answers each one via [Request.Respond].
type Escalator struct {
	requests  chan *Request
	done      chan struct{}
	closeOnce sync.Once
}

// NewEscalator creates an Escalator. The request channel is unbuffered so
// escalations stay strictly serialized: at most one confirmation is
// pending at a time.
func NewEscalator() *Escalator {
	return &Escalator{
		requests: make(chan *Request),
		done:     make(chan struct{}),
	}
}

// Requests exposes the stream of suspended resolutions to the interactive
// surface.
func (e *Escalator) Requests() <-chan *Request {
	return e.requests
}

// Close tears down the escalation surface. Workers currently suspended, or
// about to suspend, observe [shared.ErrEscalationClosed] and treat the
// descriptor as abandoned. Close is idempotent and safe to call from any
// goroutine.
func (e *Escalator) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

// raise suspends until the interactive surface answers, the context is
// cancelled, or the escalator is closed. An abandoned wait is reported as
// an error; callers degrade it to a skip.
func (e *Escalator) raise(ctx context.Context, req *Request) (Decision, error) {
	req.reply = make(chan Decision)
	req.abandoned = make(chan struct{})
	defer close(req.abandoned)

	select {
	case e.requests <- req:
	case <-ctx.Done():
		return Decision{}, fmt.Errorf("%w: %v", shared.ErrEscalationClosed, ctx.Err())
	case <-e.done:
		return Decision{}, shared.ErrEscalationClosed
	}

	select {
	case d := <-req.reply:
		return d, nil
	case <-ctx.Done():
		return Decision{}, fmt.Errorf("%w: %v", shared.ErrEscalationClosed, ctx.Err())
	case <-e.done:
		return Decision{}, shared.ErrEscalationClosed
	}
}
