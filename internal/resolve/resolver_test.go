package resolve

import (
	"context"
	"testing"

	"github.com/calegray/syncopate/internal/models"
)

func newTestResolver(lib *mockSearcher, esc *Escalator) *Resolver {
	return NewResolver(ResolverOpts{
		Retriever: NewRetriever(lib, 0, nil),
		Engine:    NewEngine(EngineOpts{Escalator: esc}),
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end acceptance", func(t *testing.T) {
		esc := NewEscalator()
		defer esc.Close()
		r := newTestResolver(beatlesLibrary(), esc)

		out, err := r.Resolve(ctx, models.RawDescriptor{Text: "Hey Jude - The Beatles"})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if out.Kind != Accepted {
			t.Fatalf("expected Accepted, got %v", out.Kind)
		}
		// the remaster is preferred over the plain pressing
		if out.Candidate.ID != "t2" {
			t.Errorf("expected remaster t2, got %q", out.Candidate.ID)
		}
		if out.Confirmed {
			t.Error("high-confidence match must not require confirmation")
		}
	})

	t.Run("empty title is not found", func(t *testing.T) {
		esc := NewEscalator()
		defer esc.Close()
		r := newTestResolver(beatlesLibrary(), esc)

		out, err := r.Resolve(ctx, models.RawDescriptor{Text: "   "})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if out.Kind != NotFound {
			t.Errorf("expected NotFound, got %v", out.Kind)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		esc := NewEscalator()
		defer esc.Close()
		r := newTestResolver(beatlesLibrary(), esc)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := r.Resolve(cancelled, models.RawDescriptor{Text: "Hey Jude - The Beatles"}); err == nil {
			t.Error("expected cancellation error")
		}
	})
}
