package resolve

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/calegray/syncopate/internal/match"
	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/normalize"
	"github.com/calegray/syncopate/internal/shared"
)

// Resolver runs the per-descriptor pipeline for one sync job:
// normalize → retrieve → score → decide.
type Resolver struct {
	retriever *Retriever
	engine    *Engine
	logger    *log.Logger
	// playlistName gives the scorer its acoustic-collection context.
	playlistName string
}

// ResolverOpts configures a Resolver.
type ResolverOpts struct {
	Retriever    *Retriever
	Engine       *Engine
	Logger       *log.Logger
	PlaylistName string
}

// NewResolver creates a Resolver for one run.
func NewResolver(opts ResolverOpts) *Resolver {
	r := &Resolver{
		retriever:    opts.Retriever,
		engine:       opts.Engine,
		logger:       opts.Logger,
		playlistName: opts.PlaylistName,
	}
	if r.logger == nil {
		r.logger = shared.NewLogger(nil)
	}
	return r
}

// Engine exposes the run's decision engine.
func (r *Resolver) Engine() *Engine { return r.engine }

// Resolve produces exactly one terminal outcome for the raw descriptor.
// Per-descriptor failures degrade to NotFound rather than aborting the
// run; only cancellation and escalation-surface errors propagate.
func (r *Resolver) Resolve(ctx context.Context, raw models.RawDescriptor) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	d := normalize.Normalize(raw)
	if d.Title == "" {
		r.logger.Warn("descriptor with empty title", "raw", raw.Text)
		return Outcome{Kind: NotFound}, nil
	}

	candidates, retrievalErr := r.retriever.Retrieve(ctx, d)

	scored := match.Score(d, candidates, match.Options{
		ShortTitle:   normalize.ShortTitle(d.SearchTitle),
		PlaylistName: r.playlistName,
	})

	outcome, err := r.engine.Decide(ctx, d, scored, retrievalErr)
	if err != nil {
		return Outcome{}, err
	}

	r.logger.Debug("resolved",
		"descriptor", descriptorString(d),
		"outcome", outcome.Kind.String(),
		"score", outcome.Score,
		"candidates", len(candidates),
	)
	return outcome, nil
}
