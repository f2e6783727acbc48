package eventloop

// State is the event loop's pacing mode, per spec.md §4.6.
type State int

const (
	// StateIdle: no active animations; the loop blocks on all fds until
	// any fires.
	StateIdle State = iota
	// StateActive: at least one monitor or layer animation is in flight;
	// frame_timer_fd gates per-frame pacing.
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// DeriveState returns StateActive when any monitor or layer animation is
// still running, StateIdle otherwise. This is the loop's sole input for
// whether frame_timer_fd should stay armed (invariant 5 in spec.md §8).
func DeriveState(anyActive bool) State {
	if anyActive {
		return StateActive
	}
	return StateIdle
}
