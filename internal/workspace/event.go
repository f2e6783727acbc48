package workspace

import "time"

// StealKind classifies a workspace transition's effect on more than one
// monitor simultaneously. Carried over from original_source/'s
// workspace_change_event_t (is_workspace_steal / is_workspace_move /
// is_set_swap flags), richer than a bare affects_multiple_monitors bool.
type StealKind int

const (
	StealNone StealKind = iota
	StealWorkspaceSteal
	StealWorkspaceMove
	StealSetSwap
)

// ChangeEvent is the normalized workspace transition the event loop routes
// to one or more monitors. FromX/Y and ToX/Y carry the 2D pair for 2D
// backends; 1D backends leave them zeroed.
type ChangeEvent struct {
	MonitorName string

	FromID, ToID int32
	FromX, FromY int32
	ToX, ToY     int32

	// Has2D marks a transition reported with an explicit (x,y) pair rather
	// than a single linear id, per compositor.Event.Has2D.
	Has2D bool

	Steal StealKind

	// PeerMonitorName is set when Steal != StealNone: the other monitor
	// participating in the same atomic dual-update.
	PeerMonitorName string
}

// MonitorTarget is the minimal surface HandleSteal/HandleMove need from a
// monitor to perform the atomic dual-update in spec.md §4.4 without this
// package importing internal/monitor (which would create an import cycle,
// since monitor depends on workspace for Context/Offset).
type MonitorTarget interface {
	CurrentContext() Context
	ApplyContextChange(newCtx Context, delta Offset, now time.Time)
}

// HandleSteal performs the atomic dual-update for a workspace-steal event:
// monitor A loses the workspace (its context reverts to whatever the caller
// supplies as aCtx, typically its previous context), monitor B gains it.
// Both updates are applied before either monitor's animation is allowed to
// tick, so no frame observes only one side of the transition.
func HandleSteal(a, b MonitorTarget, aCtx, bCtx Context, shiftPixels float64, policy Policy, now time.Time) {
	aDelta := ComputeOffset(a.CurrentContext(), aCtx, shiftPixels, policy)
	bDelta := ComputeOffset(b.CurrentContext(), bCtx, shiftPixels, policy)
	a.ApplyContextChange(aCtx, aDelta, now)
	b.ApplyContextChange(bCtx, bDelta, now)
}

// HandleMove is an alias for HandleSteal: spec.md §4.4 treats "moving" and
// "stealing" a workspace between monitors identically — one atomic
// dual-update wrapped in a single change_event.
func HandleMove(a, b MonitorTarget, aCtx, bCtx Context, shiftPixels float64, policy Policy, now time.Time) {
	HandleSteal(a, b, aCtx, bCtx, shiftPixels, policy, now)
}
