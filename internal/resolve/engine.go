package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/calegray/syncopate/internal/match"
	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/normalize"
	"github.com/calegray/syncopate/internal/shared"
)

// Confidence bands driving the decision engine.
const (
	// AutoAcceptScore is the floor for accepting a match without asking.
	AutoAcceptScore = 80.0
	// ConfirmScore is the floor for asking an operator; anything below
	// goes to manual search.
	ConfirmScore = 60.0
)

// OutcomeKind tags a terminal resolution outcome.
type OutcomeKind int

const (
	// Accepted resolved to a library entry.
	Accepted OutcomeKind = iota
	// Skipped was passed over, by an operator or the sticky skip-all mode.
	Skipped
	// SkippedAll marks the descriptor whose prompt set the sticky
	// skip-all mode for the remainder of the run.
	SkippedAll
	// NotFound had no usable match and no escalation path left.
	NotFound
)

func (k OutcomeKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Skipped:
		return "skipped"
	case SkippedAll:
		return "skipped_all"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result for one descriptor. Exactly one outcome
// is produced per input; outcomes are never revisited.
type Outcome struct {
	Kind      OutcomeKind
	Candidate *models.Candidate
	Score     float64
	// Confirmed marks an acceptance that went through an operator.
	Confirmed bool
}

// Engine is the per-run resolution decision state machine. The sticky
// skip-all flag lives here, scoped to one run; a fresh Engine starts each
// sync job.
type Engine struct {
	esc          *Escalator
	logger       *log.Logger
	autoAccept   float64
	confirmFloor float64
	skipAll      bool
}

// EngineOpts configures an Engine. Zero thresholds use the defaults.
type EngineOpts struct {
	Escalator    *Escalator
	Logger       *log.Logger
	AutoAccept   float64
	ConfirmFloor float64
}

// NewEngine creates a decision engine for one resolution run.
func NewEngine(opts EngineOpts) *Engine {
	e := &Engine{
		esc:          opts.Escalator,
		logger:       opts.Logger,
		autoAccept:   opts.AutoAccept,
		confirmFloor: opts.ConfirmFloor,
	}
	if e.logger == nil {
		e.logger = shared.NewLogger(nil)
	}
	if e.autoAccept == 0 {
		e.autoAccept = AutoAcceptScore
	}
	if e.confirmFloor == 0 {
		e.confirmFloor = ConfirmScore
	}
	return e
}

// SkipAll reports whether the sticky skip-all mode is set.
func (e *Engine) SkipAll() bool { return e.skipAll }

// Decide maps a scoring outcome to a terminal resolution outcome,
// suspending for an operator decision when confidence is insufficient.
// retrievalErr carries an artist-not-found signal from the retriever.
func (e *Engine) Decide(ctx context.Context, d normalize.Descriptor, scored match.Outcome, retrievalErr error) (Outcome, error) {
	if retrievalErr != nil && !errors.Is(retrievalErr, shared.ErrArtistNotFound) {
		return Outcome{}, retrievalErr
	}

	best := scored.Best
	if best != nil && best.FinalScore >= e.autoAccept {
		c := best.Candidate
		return Outcome{Kind: Accepted, Candidate: &c, Score: best.FinalScore}, nil
	}

	if best != nil && best.FinalScore >= e.confirmFloor {
		if e.skipAll {
			return Outcome{Kind: Skipped, Score: best.FinalScore}, nil
		}
		return e.confirm(ctx, d, best)
	}

	// under the confirm floor: zero candidates, artist not found, or a
	// best score too weak to propose
	if e.skipAll {
		return Outcome{Kind: NotFound, Score: bestScore(best)}, nil
	}
	return e.manualSearch(ctx, d, best, retrievalErr)
}

func (e *Engine) confirm(ctx context.Context, d normalize.Descriptor, best *match.Result) (Outcome, error) {
	c := best.Candidate
	req := &Request{
		Kind:       ConfirmMatch,
		Descriptor: descriptorString(d),
		Title:      d.Title,
		Artist:     d.Artist,
		Album:      d.Album,
		Best:       &c,
		Score:      best.FinalScore,
		Actions:    []Action{ActionAccept, ActionSkip, ActionSkipAll, ActionManualSearch},
	}

	decision, err := e.esc.raise(ctx, req)
	if err != nil {
		return e.abandoned(d, best.FinalScore, err)
	}

	switch decision.Action {
	case ActionAccept:
		chosen := c
		if decision.Choice != nil {
			chosen = *decision.Choice
		}
		return Outcome{Kind: Accepted, Candidate: &chosen, Score: best.FinalScore, Confirmed: true}, nil
	case ActionSkipAll:
		e.skipAll = true
		return Outcome{Kind: SkippedAll, Score: best.FinalScore}, nil
	case ActionManualSearch:
		return e.manualSearch(ctx, d, best, nil)
	default:
		return Outcome{Kind: Skipped, Score: best.FinalScore}, nil
	}
}

func (e *Engine) manualSearch(ctx context.Context, d normalize.Descriptor, best *match.Result, retrievalErr error) (Outcome, error) {
	req := &Request{
		Kind:       ManualSearch,
		Descriptor: descriptorString(d),
		Title:      d.Title,
		Artist:     d.Artist,
		Album:      d.Album,
		Score:      bestScore(best),
		Actions:    []Action{ActionAccept, ActionSkip, ActionSkipAll},
	}
	if best != nil {
		c := best.Candidate
		req.Best = &c
	}
	if errors.Is(retrievalErr, shared.ErrArtistNotFound) {
		req.Reason = "artist not found"
	}

	decision, err := e.esc.raise(ctx, req)
	if err != nil {
		return e.abandoned(d, req.Score, err)
	}

	switch decision.Action {
	case ActionAccept:
		if decision.Choice == nil {
			return Outcome{Kind: NotFound, Score: req.Score}, nil
		}
		return Outcome{Kind: Accepted, Candidate: decision.Choice, Score: req.Score, Confirmed: true}, nil
	case ActionSkipAll:
		e.skipAll = true
		return Outcome{Kind: SkippedAll, Score: req.Score}, nil
	default:
		return Outcome{Kind: Skipped, Score: req.Score}, nil
	}
}

// abandoned degrades an abandoned escalation wait to a skip, so a torn
// down interactive surface never fails the run.
func (e *Engine) abandoned(d normalize.Descriptor, score float64, err error) (Outcome, error) {
	if errors.Is(err, shared.ErrEscalationClosed) {
		e.logger.Warn("escalation abandoned, skipping", "descriptor", descriptorString(d))
		return Outcome{Kind: Skipped, Score: score}, nil
	}
	return Outcome{}, err
}

func bestScore(best *match.Result) float64 {
	if best == nil {
		return 0
	}
	return best.FinalScore
}

func descriptorString(d normalize.Descriptor) string {
	if d.Artist == "" {
		return d.Title
	}
	return fmt.Sprintf("%s - %s", d.Title, d.Artist)
}
