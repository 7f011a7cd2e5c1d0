package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/calegray/syncopate/internal/shared"
)

func TestRespondWithoutWaiter(t *testing.T) {
	req := &Request{Kind: ConfirmMatch} // never raised
	if err := req.Respond(Decision{Action: ActionAccept}); !errors.Is(err, shared.ErrNoWaiter) {
		t.Errorf("expected ErrNoWaiter, got %v", err)
	}
}

func TestEscalatorRoundTrip(t *testing.T) {
	esc := NewEscalator()
	defer esc.Close()

	type raised struct {
		d   Decision
		err error
	}
	done := make(chan raised, 1)
	go func() {
		d, err := esc.raise(context.Background(), &Request{Kind: ConfirmMatch, Descriptor: "Hey Jude - The Beatles"})
		done <- raised{d, err}
	}()

	select {
	case req := <-esc.Requests():
		if req.Descriptor != "Hey Jude - The Beatles" {
			t.Errorf("unexpected descriptor %q", req.Descriptor)
		}
		if err := req.Respond(Decision{Action: ActionAccept}); err != nil {
			t.Fatalf("Respond failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no request raised")
	}

	select {
	case got := <-done:
		if got.err != nil {
			t.Fatalf("raise returned error: %v", got.err)
		}
		if got.d.Action != ActionAccept {
			t.Errorf("expected accept, got %v", got.d.Action)
		}
	case <-time.After(time.Second):
		t.Fatal("raise did not return")
	}
}

func TestEscalatorSecondRespondRejected(t *testing.T) {
	esc := NewEscalator()
	defer esc.Close()

	go esc.raise(context.Background(), &Request{Kind: ConfirmMatch})

	req := <-esc.Requests()
	if err := req.Respond(Decision{Action: ActionSkip}); err != nil {
		t.Fatalf("first Respond failed: %v", err)
	}
	if err := req.Respond(Decision{Action: ActionAccept}); !errors.Is(err, shared.ErrNoWaiter) {
		t.Errorf("expected ErrNoWaiter on second Respond, got %v", err)
	}
}

func TestEscalatorCancelledContext(t *testing.T) {
	esc := NewEscalator()
	defer esc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := esc.raise(ctx, &Request{Kind: ManualSearch})
	if !errors.Is(err, shared.ErrEscalationClosed) {
		t.Errorf("expected ErrEscalationClosed, got %v", err)
	}
}

func TestEscalatorClosedWhileWaiting(t *testing.T) {
	esc := NewEscalator()

	errCh := make(chan error, 1)
	go func() {
		_, err := esc.raise(context.Background(), &Request{Kind: ConfirmMatch})
		errCh <- err
	}()

	<-esc.Requests() // take the request but never respond
	esc.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, shared.ErrEscalationClosed) {
			t.Errorf("expected ErrEscalationClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("raise did not observe teardown")
	}
}

func TestEscalatorCloseIdempotent(t *testing.T) {
	esc := NewEscalator()
	esc.Close()
	esc.Close() // must not panic
}

func TestEscalatorCloseConcurrent(t *testing.T) {
	esc := NewEscalator()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			esc.Close()
		}()
	}
	wg.Wait()
}
