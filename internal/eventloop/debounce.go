package eventloop

import "github.com/hyprlax/hyprlax/internal/workspace"

// Debouncer coalesces bursts of workspace.ChangeEvent into a single
// last-write-wins event applied once the ~10ms debounce window elapses,
// per spec.md §4.6.
type Debouncer struct {
	pending    workspace.ChangeEvent
	hasPending bool
}

// NewDebouncer returns an empty Debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Stash records ev as the pending event, overwriting whatever was already
// stashed (last-write-wins). Reports whether the caller must arm the
// debounce timer — true only for the first stash of a burst; a timer
// already running continues towards its original deadline.
func (d *Debouncer) Stash(ev workspace.ChangeEvent) (mustArm bool) {
	mustArm = !d.hasPending
	d.pending = ev
	d.hasPending = true
	return mustArm
}

// Fire pops the pending event when the debounce timer expires. Returns
// false if nothing was stashed (a spurious timer fire, or the timer having
// already been drained by a prior Fire in the same burst).
func (d *Debouncer) Fire() (workspace.ChangeEvent, bool) {
	if !d.hasPending {
		return workspace.ChangeEvent{}, false
	}
	ev := d.pending
	d.hasPending = false
	return ev, true
}

// Pending reports whether an event is currently stashed awaiting the
// debounce timer to fire.
func (d *Debouncer) Pending() bool { return d.hasPending }
