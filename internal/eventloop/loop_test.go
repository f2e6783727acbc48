package eventloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyprlax/hyprlax/internal/workspace"
)

func TestLoopRunStopsOnContextCancel(t *testing.T) {
	l, err := New(Handlers{
		TickAnimations: func(now time.Time) bool { return false },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned an error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop within 2s of context cancellation")
	}
}

func TestLoopAppliesDebouncedWorkspaceChange(t *testing.T) {
	var applied int32
	var lastToID int32

	l, err := New(Handlers{
		TickAnimations: func(now time.Time) bool { return false },
		ApplyDebounced: func(ev workspace.ChangeEvent, now time.Time) {
			atomic.StoreInt32(&applied, 1)
			atomic.StoreInt32(&lastToID, ev.ToID)
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	if err := l.StashWorkspaceChange(workspace.ChangeEvent{ToID: 7}); err != nil {
		t.Fatalf("StashWorkspaceChange: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if atomic.LoadInt32(&applied) != 1 {
		t.Fatal("expected the debounced workspace change to be applied")
	}
	if atomic.LoadInt32(&lastToID) != 7 {
		t.Fatalf("expected ToID=7, got %d", lastToID)
	}
}

func TestLoopActiveStateRendersEachFrame(t *testing.T) {
	var renders int32
	start := time.Now()

	l, err := New(Handlers{
		TickAnimations: func(now time.Time) bool {
			// Stay active long enough for the frame timer to fire at
			// least once before the loop would otherwise disarm it.
			return time.Since(start) < 80*time.Millisecond
		},
		Render: func() { atomic.AddInt32(&renders, 1) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if atomic.LoadInt32(&renders) < 1 {
		t.Fatal("expected at least one render while animations were active")
	}
}

func TestSetTargetFPSRejectsNoopWhenUnchanged(t *testing.T) {
	l, err := New(Handlers{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	if err := l.SetTargetFPS(60); err != nil {
		t.Fatalf("SetTargetFPS: %v", err)
	}
	if l.targetFPS != 60 {
		t.Fatalf("expected targetFPS 60, got %d", l.targetFPS)
	}
}
