// package tasks orchestrates playlist resolution and sync runs.
//
// The core abstraction is SyncEngine, which drives one playlist's
// resolution pipeline end to end and reconciles the resolved set against
// the target playlist. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/calegray/syncopate/internal/library"
	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/resolve"
	"github.com/calegray/syncopate/internal/shared"
	"github.com/calegray/syncopate/internal/sources"
)

const defaultWorkers = 3

// RunResult contains all data from a single playlist sync run.
type RunResult struct {
	RunID    string            // Unique id for this run
	Source   models.Playlist   // Source playlist metadata
	Target   models.Playlist   // Target playlist in the library
	Plan     models.SyncPlan   // Computed reconciliation plan
	Outcomes []resolve.Outcome // Per-descriptor terminal outcomes, in source order
	Total    int               // Descriptors processed
	Accepted int               // Descriptors resolved to a library entry
	Skipped  int               // Descriptors skipped (operator or sticky skip-all)
	NotFound int               // Descriptors with no usable match
	Applied  bool              // Whether the plan was applied to the target
}

// SyncEngine defines operations for syncing source playlists into the
// local library.
type SyncEngine interface {
	// Run resolves one source playlist and reconciles it into the target.
	// An empty targetName reuses the source playlist's name.
	Run(ctx context.Context, sourceRef, targetName string, progress chan<- ProgressUpdate) (*RunResult, error)

	// RunAll syncs several source playlists with bounded concurrency.
	RunAll(ctx context.Context, sourceRefs []string, progress chan<- ProgressUpdate) ([]*RunResult, error)
}

// Engine implements SyncEngine. Each Run owns its own decision engine so
// the sticky skip-all mode never leaks across runs; the escalator is
// shared so operator prompts stay serialized even under RunAll.
type Engine struct {
	source    sources.Source
	searcher  library.Searcher
	playlists library.PlaylistMutator
	escalator *resolve.Escalator
	logger    *log.Logger

	workers        int
	dryRun         bool
	candidateLimit int
	autoAccept     float64
	confirmFloor   float64
}

// EngineOpts contains configuration for creating an Engine.
type EngineOpts struct {
	Source    sources.Source
	Searcher  library.Searcher
	Playlists library.PlaylistMutator
	Escalator *resolve.Escalator
	Logger    *log.Logger

	Workers        int
	DryRun         bool
	CandidateLimit int
	AutoAccept     float64
	ConfirmFloor   float64
}

// NewEngine creates a new Engine with the provided collaborators.
func NewEngine(opts EngineOpts) *Engine {
	e := &Engine{
		source:         opts.Source,
		searcher:       opts.Searcher,
		playlists:      opts.Playlists,
		escalator:      opts.Escalator,
		logger:         opts.Logger,
		workers:        opts.Workers,
		dryRun:         opts.DryRun,
		candidateLimit: opts.CandidateLimit,
		autoAccept:     opts.AutoAccept,
		confirmFloor:   opts.ConfirmFloor,
	}
	if e.logger == nil {
		e.logger = shared.NewLogger(nil)
	}
	if e.workers <= 0 {
		e.workers = defaultWorkers
	}
	if e.escalator == nil {
		e.escalator = resolve.NewEscalator()
	}
	return e
}

// Escalator exposes the engine's escalation rendezvous to the interactive
// surface.
func (e *Engine) Escalator() *resolve.Escalator { return e.escalator }

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run resolves one source playlist and reconciles it into the target.
func (e *Engine) Run(ctx context.Context, sourceRef, targetName string, progress chan<- ProgressUpdate) (*RunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: no source adapter", shared.ErrAdapter)
	}
	if e.searcher == nil || e.playlists == nil {
		return nil, fmt.Errorf("%w: library capability not configured", shared.ErrLibraryOffline)
	}

	runLog := e.logger.With("run", shared.GenerateID()[:8], "source", sourceRef)

	e.sendProgress(progress, fetchSourceUpdate(sourceRef))
	src, err := e.source.ListTracks(ctx, sourceRef)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, foundSourceUpdate(src))

	if targetName == "" {
		targetName = src.Playlist.Name
	}
	e.sendProgress(progress, findTargetUpdate(targetName))
	target, current, err := e.locateTarget(ctx, targetName)
	if err != nil {
		return nil, err
	}

	resolver := resolve.NewResolver(resolve.ResolverOpts{
		Retriever: resolve.NewRetriever(e.searcher, e.candidateLimit, runLog),
		Engine: resolve.NewEngine(resolve.EngineOpts{
			Escalator:    e.escalator,
			Logger:       runLog,
			AutoAccept:   e.autoAccept,
			ConfirmFloor: e.confirmFloor,
		}),
		Logger:       runLog,
		PlaylistName: target.Name,
	})

	result := &RunResult{
		RunID:  shared.GenerateID(),
		Source: src.Playlist,
		Target: *target,
		Total:  len(src.Tracks),
	}

	var resolved []models.Candidate
	for i, raw := range src.Tracks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.sendProgress(progress, resolveTrackUpdate(i+1, len(src.Tracks), raw))

		outcome, err := resolver.Resolve(ctx, raw)
		if err != nil {
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, outcome)

		switch outcome.Kind {
		case resolve.Accepted:
			result.Accepted++
			resolved = append(resolved, *outcome.Candidate)
		case resolve.Skipped, resolve.SkippedAll:
			result.Skipped++
		case resolve.NotFound:
			result.NotFound++
		}
	}

	result.Plan = BuildPlan(target.ID, current, resolved)
	e.sendProgress(progress, reconcileUpdate(len(result.Plan.TracksToAdd)))

	if !e.dryRun && len(result.Plan.TracksToAdd) > 0 {
		e.sendProgress(progress, applyPlanUpdate(result.Plan))
		if err := e.playlists.Append(ctx, result.Plan.PlaylistID, result.Plan.TracksToAdd); err != nil {
			return result, err
		}
		result.Applied = true
	}

	runLog.Info("sync run complete",
		"total", result.Total,
		"accepted", result.Accepted,
		"skipped", result.Skipped,
		"not_found", result.NotFound,
		"added", len(result.Plan.TracksToAdd),
		"applied", result.Applied,
	)
	return result, nil
}

// RunAll syncs several source playlists through a small fixed worker pool.
// Jobs own their descriptor streams and plans; the shared escalator keeps
// operator prompts serialized.
func (e *Engine) RunAll(ctx context.Context, sourceRefs []string, progress chan<- ProgressUpdate) ([]*RunResult, error) {
	results := make([]*RunResult, len(sourceRefs))
	sem := semaphore.NewWeighted(int64(e.workers))

	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range sourceRefs {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			result, err := e.Run(ctx, ref, "", progress)
			if err != nil {
				return fmt.Errorf("sync %s: %w", ref, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// locateTarget finds the named playlist in the library, creating it when
// absent, and returns its current contents.
func (e *Engine) locateTarget(ctx context.Context, name string) (*models.Playlist, []models.Candidate, error) {
	playlists, err := e.playlists.Playlists(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, pl := range playlists {
		if strings.EqualFold(pl.Name, name) {
			current, err := e.playlists.CurrentTracks(ctx, pl.ID)
			if err != nil {
				return nil, nil, err
			}
			return &pl, current, nil
		}
	}

	created, err := e.playlists.CreatePlaylist(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return created, nil, nil
}
