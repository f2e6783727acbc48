package eventloop

import (
	"testing"

	"github.com/hyprlax/hyprlax/internal/workspace"
)

func TestDebouncerFirstStashRequiresArm(t *testing.T) {
	d := NewDebouncer()
	if !d.Stash(workspace.ChangeEvent{ToID: 1}) {
		t.Fatal("the first stash in a burst must request arming the debounce timer")
	}
}

func TestDebouncerSecondStashDoesNotRearm(t *testing.T) {
	d := NewDebouncer()
	d.Stash(workspace.ChangeEvent{ToID: 1})
	if d.Stash(workspace.ChangeEvent{ToID: 2}) {
		t.Fatal("a second stash within the same burst must not request re-arming")
	}
}

func TestDebouncerFireReturnsLastWriteWins(t *testing.T) {
	d := NewDebouncer()
	d.Stash(workspace.ChangeEvent{ToID: 1})
	d.Stash(workspace.ChangeEvent{ToID: 2})
	d.Stash(workspace.ChangeEvent{ToID: 3})

	ev, ok := d.Fire()
	if !ok || ev.ToID != 3 {
		t.Fatalf("expected the last stashed event (ToID=3), got ok=%v ev=%+v", ok, ev)
	}
}

func TestDebouncerFireWithNothingPendingReturnsFalse(t *testing.T) {
	d := NewDebouncer()
	if _, ok := d.Fire(); ok {
		t.Fatal("Fire with nothing stashed should report false")
	}
}

func TestDebouncerAfterFireStashStartsNewBurst(t *testing.T) {
	d := NewDebouncer()
	d.Stash(workspace.ChangeEvent{ToID: 1})
	d.Fire()
	if !d.Stash(workspace.ChangeEvent{ToID: 2}) {
		t.Fatal("after Fire drains the pending event, the next stash starts a new burst and must request arming")
	}
}

func TestDebouncerPendingReflectsState(t *testing.T) {
	d := NewDebouncer()
	if d.Pending() {
		t.Fatal("a fresh Debouncer should report no pending event")
	}
	d.Stash(workspace.ChangeEvent{})
	if !d.Pending() {
		t.Fatal("after Stash, Pending should report true")
	}
	d.Fire()
	if d.Pending() {
		t.Fatal("after Fire, Pending should report false")
	}
}
