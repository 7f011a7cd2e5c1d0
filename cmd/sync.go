package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/calegray/syncopate/internal/library"
	"github.com/calegray/syncopate/internal/match"
	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/normalize"
	"github.com/calegray/syncopate/internal/resolve"
	"github.com/calegray/syncopate/internal/shared"
	"github.com/calegray/syncopate/internal/tasks"
)

// Init writes a starter configuration file.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.writePlain("Wrote %s — fill in your credentials.\n", path)
	return nil
}

// Sync resolves one or more source playlists and reconciles each into the
// library, prompting the operator on low-confidence matches.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	refs := cmd.StringSlice("source")
	if len(refs) == 0 {
		return fmt.Errorf("%w: --source", shared.ErrMissingArgument)
	}

	lib, err := r.openLibrary(ctx, config)
	if err != nil {
		return err
	}
	src, err := r.openSource(ctx, config, cmd.String("from"))
	if err != nil {
		return err
	}

	engine := tasks.NewEngine(tasks.EngineOpts{
		Source:         src,
		Searcher:       lib,
		Playlists:      lib,
		Logger:         r.logger,
		Workers:        config.Sync.Workers,
		DryRun:         cmd.Bool("dry-run") || config.Sync.DryRun,
		CandidateLimit: config.Matching.CandidateLimit,
		AutoAccept:     config.Matching.AutoAcceptScore,
		ConfirmFloor:   config.Matching.ConfirmScore,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource, tasks.FindTarget:
				r.writePlain("* %s\n", update.Message)
			case tasks.ResolveTracks:
				r.writePlain("  %s\n", update.Message)
			case tasks.Reconcile, tasks.ApplyPlan:
				r.writePlain("* %s\n", update.Message)
			}
		}
	}()

	// answer escalations until the engine finishes
	prompter := NewPrompter(r.input, r.output, lib, cmd.Bool("non-interactive"))
	promptDone := make(chan struct{})
	go func() {
		defer close(promptDone)
		prompter.Serve(runCtx, engine.Escalator())
	}()

	type runOutput struct {
		results []*tasks.RunResult
		err     error
	}
	outCh := make(chan runOutput, 1)
	go func() {
		if len(refs) == 1 {
			result, err := engine.Run(runCtx, refs[0], cmd.String("target"), progressCh)
			if result != nil {
				outCh <- runOutput{results: []*tasks.RunResult{result}, err: err}
				return
			}
			outCh <- runOutput{err: err}
			return
		}
		results, err := engine.RunAll(runCtx, refs, progressCh)
		outCh <- runOutput{results: results, err: err}
	}()

	out := <-outCh
	engine.Escalator().Close()
	cancel()
	close(progressCh)
	<-promptDone

	if out.err != nil {
		return out.err
	}

	if cmd.Bool("json") {
		return r.writeJSON(out.results, true)
	}
	for _, result := range out.results {
		if result == nil {
			continue
		}
		r.printSummary(result)
	}
	return nil
}

func (r *Runner) printSummary(result *tasks.RunResult) {
	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	r.writePlain("Source: %s (%d tracks)\n", result.Source.Name, result.Total)
	r.writePlain("Target: %s\n", result.Target.Name)
	r.writePlain("Resolved: %d  Skipped: %d  Not found: %d\n", result.Accepted, result.Skipped, result.NotFound)
	if len(result.Plan.TracksToAdd) == 0 {
		r.writePlain("Target already up to date.\n")
		return
	}
	verb := "Added"
	if !result.Applied {
		verb = "Would add"
	}
	r.writePlain("%s %d tracks:\n", verb, len(result.Plan.TracksToAdd))
	for _, track := range result.Plan.TracksToAdd {
		r.writePlain("  + %s - %s\n", track.Artist, track.Title)
	}
}

// Resolve resolves a single free-text reference and prints the ranked
// candidates without touching any playlist.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	line := cmd.Args().First()
	if line == "" {
		return fmt.Errorf("%w: track reference", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	lib, err := r.openLibrary(ctx, config)
	if err != nil {
		return err
	}

	d := normalize.Normalize(models.RawDescriptor{Text: line})
	r.writePlain("Normalized: title=%q artist=%q search=%q\n", d.Title, d.Artist, d.SearchTitle)

	retriever := resolve.NewRetriever(lib, config.Matching.CandidateLimit, r.logger)
	candidates, err := retriever.Retrieve(ctx, d)
	if err != nil {
		return err
	}

	scored := match.Score(d, candidates, match.Options{ShortTitle: normalize.ShortTitle(d.SearchTitle)})
	if cmd.Bool("json") {
		return r.writeJSON(scored.Ranked, true)
	}

	if len(scored.Ranked) == 0 {
		if scored.Best != nil {
			r.writePlain("No candidates over threshold; best was %s - %s (%.1f)\n",
				scored.Best.Candidate.Artist, scored.Best.Candidate.Title, scored.Best.FinalScore)
		} else {
			r.writePlain("No candidates.\n")
		}
		return nil
	}
	for i, res := range scored.Ranked {
		r.writePlain("%2d. %5.1f  %s - %s [%s]\n", i+1, res.FinalScore,
			res.Candidate.Artist, res.Candidate.Title, res.Candidate.Album)
	}
	return nil
}

// LibraryArtists searches library artists by name.
func (r *Runner) LibraryArtists(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	lib, err := r.openLibrary(ctx, r.loadConfig(cmd))
	if err != nil {
		return err
	}
	artists, err := lib.SearchArtists(ctx, name)
	if err != nil {
		return err
	}
	for _, artist := range artists {
		r.writePlain("%s\t%s\n", artist.ID, artist.Name)
	}
	return nil
}

// LibrarySearch performs a library-wide track search.
func (r *Runner) LibrarySearch(ctx context.Context, cmd *cli.Command) error {
	title := cmd.Args().First()
	if title == "" {
		return fmt.Errorf("%w: track title", shared.ErrMissingArgument)
	}

	lib, err := r.openLibrary(ctx, r.loadConfig(cmd))
	if err != nil {
		return err
	}
	tracks, err := lib.SearchTracks(ctx, title)
	if err != nil {
		return err
	}
	for _, track := range tracks {
		r.writePlain("%s\t%s - %s [%s]\n", track.ID, track.Artist, track.Title, track.Album)
	}
	return nil
}

// LibraryPlaylists lists the library's playlists.
func (r *Runner) LibraryPlaylists(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.openLibrary(ctx, r.loadConfig(cmd))
	if err != nil {
		return err
	}
	playlists, err := lib.Playlists(ctx)
	if err != nil {
		return err
	}
	for _, pl := range playlists {
		r.writePlain("%s\t%s (%d tracks)\n", pl.ID, pl.Name, pl.TrackCount)
	}
	return nil
}

// CacheClear drops all cached lookups.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	if config.Cache.Path == "" {
		return fmt.Errorf("%w: no cache configured", shared.ErrMissingConfig)
	}
	db, err := shared.NewDatabase(config.Cache.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, err := library.NewLookupCache(db)
	if err != nil {
		return err
	}
	if err := cache.Clear(); err != nil {
		return err
	}
	r.writePlain("Cache cleared.\n")
	return nil
}
