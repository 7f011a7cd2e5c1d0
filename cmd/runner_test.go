package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/calegray/syncopate/internal/match"
	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/normalize"
	"github.com/calegray/syncopate/internal/resolve"
	"github.com/calegray/syncopate/internal/shared"
)

func TestNewRunner(t *testing.T) {
	t.Run("with all dependencies provided", func(t *testing.T) {
		logger := shared.NewLogger(nil)
		output := &bytes.Buffer{}
		input := strings.NewReader("")

		runner := NewRunner(RunnerOpts{Logger: logger, Output: output, Input: input})

		if runner.logger != logger {
			t.Error("expected logger to be set")
		}
		if runner.output != output {
			t.Error("expected output to be set")
		}
		if runner.input != input {
			t.Error("expected input to be set")
		}
	})

	t.Run("with defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		if runner.logger == nil || runner.output == nil || runner.input == nil {
			t.Error("expected defaults for all dependencies")
		}
	})
}

func TestWriteJSON(t *testing.T) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output})

	if err := runner.writeJSON(map[string]int{"tracks": 3}, false); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}
	if got := strings.TrimSpace(output.String()); got != `{"tracks":3}` {
		t.Errorf("unexpected output %q", got)
	}
}

func TestWritePlain(t *testing.T) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output})

	runner.writePlain("%d tracks\n", 3)
	if output.String() != "3 tracks\n" {
		t.Errorf("unexpected output %q", output.String())
	}
}

type stubSearcher struct {
	hits []models.Candidate
}

func (s *stubSearcher) SearchArtists(ctx context.Context, name string) ([]models.ArtistRef, error) {
	return nil, nil
}

func (s *stubSearcher) ArtistTracks(ctx context.Context, artist models.ArtistRef) ([]models.Candidate, error) {
	return nil, nil
}

func (s *stubSearcher) ArtistAlbums(ctx context.Context, artist models.ArtistRef) ([]models.AlbumRef, error) {
	return nil, nil
}

func (s *stubSearcher) AlbumTracks(ctx context.Context, album models.AlbumRef) ([]models.Candidate, error) {
	return nil, nil
}

func (s *stubSearcher) SearchTracks(ctx context.Context, title string) ([]models.Candidate, error) {
	return s.hits, nil
}

func scoredOutcome(score float64) match.Outcome {
	if score == 0 {
		return match.Outcome{}
	}
	r := match.Result{
		Candidate:     models.Candidate{ID: "best", Title: "Obscure Song", Artist: "Somebody"},
		CombinedScore: score,
		FinalScore:    score,
	}
	return match.Outcome{Ranked: []match.Result{r}, Best: &r}
}

// decide runs a decision engine against the prompter and returns its outcome.
func decide(t *testing.T, e *resolve.Engine, score float64) resolve.Outcome {
	t.Helper()
	d := normalize.Descriptor{Title: "Obscure Song", Artist: "Somebody"}
	out, err := e.Decide(context.Background(), d, scoredOutcome(score), nil)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	return out
}

func TestPrompter(t *testing.T) {
	t.Run("non-interactive skips everything", func(t *testing.T) {
		esc := resolve.NewEscalator()
		defer esc.Close()

		output := &bytes.Buffer{}
		p := NewPrompter(strings.NewReader(""), output, &stubSearcher{}, true)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		go p.Serve(ctx, esc)

		e := resolve.NewEngine(resolve.EngineOpts{Escalator: esc})
		out := decide(t, e, 70)
		if out.Kind != resolve.Skipped {
			t.Errorf("expected Skipped, got %v", out.Kind)
		}
	})

	t.Run("accept answer confirms the match", func(t *testing.T) {
		esc := resolve.NewEscalator()
		defer esc.Close()

		output := &bytes.Buffer{}
		p := NewPrompter(strings.NewReader("a\n"), output, &stubSearcher{}, false)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		go p.Serve(ctx, esc)

		e := resolve.NewEngine(resolve.EngineOpts{Escalator: esc})
		out := decide(t, e, 70)
		if out.Kind != resolve.Accepted || !out.Confirmed {
			t.Errorf("expected confirmed acceptance, got %+v", out)
		}
		if !strings.Contains(output.String(), "Confirm match") {
			t.Errorf("expected prompt rendered, got %q", output.String())
		}
	})

	t.Run("manual search picks a library hit", func(t *testing.T) {
		esc := resolve.NewEscalator()
		defer esc.Close()

		lib := &stubSearcher{hits: []models.Candidate{
			{ID: "hit1", Title: "Obscure Song", Artist: "Somebody"},
		}}
		output := &bytes.Buffer{}
		p := NewPrompter(strings.NewReader("obscure\n1\n"), output, lib, false)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		go p.Serve(ctx, esc)

		e := resolve.NewEngine(resolve.EngineOpts{Escalator: esc})
		out := decide(t, e, 0)
		if out.Kind != resolve.Accepted || out.Candidate == nil || out.Candidate.ID != "hit1" {
			t.Errorf("expected manual pick accepted, got %+v", out)
		}
	})

	t.Run("skip all sets the sticky mode", func(t *testing.T) {
		esc := resolve.NewEscalator()
		defer esc.Close()

		p := NewPrompter(strings.NewReader("S\n"), &bytes.Buffer{}, &stubSearcher{}, false)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		go p.Serve(ctx, esc)

		e := resolve.NewEngine(resolve.EngineOpts{Escalator: esc})
		out := decide(t, e, 70)
		if out.Kind != resolve.SkippedAll {
			t.Errorf("expected SkippedAll, got %v", out.Kind)
		}
		if !e.SkipAll() {
			t.Error("expected sticky skip-all set")
		}
	})
}
