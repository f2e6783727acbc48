// Package monitor implements the per-output Monitor and its Registry,
// grounded on spec.md §3 "Monitor" and §4.4 "Monitor Registry & Layer List".
package monitor

import (
	"time"

	"github.com/hyprlax/hyprlax/internal/animation"
	"github.com/hyprlax/hyprlax/internal/easing"
	"github.com/hyprlax/hyprlax/internal/layer"
	"github.com/hyprlax/hyprlax/internal/workspace"
)

// OutputHandle is an opaque platform-owned output identity (e.g. a
// wl_output proxy ID). Monitor never interprets it, only compares it.
type OutputHandle any

// Monitor is one physical output's full runtime state: identity, geometry,
// workspace context, animation state, and an optional per-monitor layer
// override list.
type Monitor struct {
	Output OutputHandle
	Name   string
	Primary bool

	Width, Height int
	Scale         float64
	RefreshHz     float64
	GlobalX       int
	GlobalY       int

	Anim *animation.Axis2D

	currentCtx  workspace.Context
	previousCtx workspace.Context

	// FramePending marks a frame callback in flight for this monitor's
	// drawable. No code in this module sets, clears or reads it.
	FramePending bool

	// Layers is this monitor's layer override list, or nil to inherit the
	// global list.
	Layers *layer.List

	Drawable any

	// DefaultDuration/DefaultEasing are applied by ApplyContextChange, used
	// by the atomic dual-monitor steal/move path (workspace.HandleSteal)
	// where the caller cannot thread per-call animation parameters through
	// the narrow workspace.MonitorTarget interface.
	DefaultDuration time.Duration
	DefaultEasing   easing.Name
}

// New constructs a Monitor at rest with the GLOBAL_NUMERIC(0) workspace
// context, the natural starting point before any compositor event arrives.
func New(output OutputHandle, name string) *Monitor {
	return &Monitor{
		Output:          output,
		Name:            name,
		Scale:           1,
		Anim:            animation.NewAxis2D(),
		DefaultDuration: time.Second,
		DefaultEasing:   easing.Linear,
	}
}

// CurrentContext satisfies workspace.MonitorTarget.
func (m *Monitor) CurrentContext() workspace.Context { return m.currentCtx }

// PreviousContext returns the context retained for transition calculation.
func (m *Monitor) PreviousContext() workspace.Context { return m.previousCtx }

// ApplyContextChange satisfies workspace.MonitorTarget: it performs the
// delta-accumulate/restart-from-current animation update, without the
// equality no-op guard (that guard belongs to HandleContextChange, since
// HandleSteal/HandleMove intentionally bypass it for atomic dual-updates).
func (m *Monitor) ApplyContextChange(newCtx workspace.Context, delta workspace.Offset, now time.Time) {
	m.previousCtx = m.currentCtx
	m.currentCtx = newCtx
	m.Anim.AddTarget(delta.X, delta.Y, m.DefaultDuration, m.DefaultEasing, now)
}

// HandleContextChange implements spec.md §4.4's handle_context_change:
// a no-op when the workspace hasn't actually changed, otherwise computes
// the offset and restarts the monitor's animation towards the accumulated
// target using duration/curve supplied by the caller (the global
// configuration's animation_duration/default_easing).
func (m *Monitor) HandleContextChange(newCtx workspace.Context, shiftPixels float64, policy workspace.Policy, duration time.Duration, curve easing.Name, now time.Time) {
	if m.currentCtx.Equal(newCtx) {
		return
	}
	delta := workspace.ComputeOffset(m.currentCtx, newCtx, shiftPixels, policy)
	m.previousCtx = m.currentCtx
	m.currentCtx = newCtx
	m.Anim.AddTarget(delta.X, delta.Y, duration, curve, now)
}

// Tick advances this monitor's animation and reports whether it is still
// active (and therefore needs another frame).
func (m *Monitor) Tick(now time.Time) bool { return m.Anim.Tick(now) }

// EffectiveLayers returns this monitor's layer override list if set,
// otherwise the supplied global fallback list, per spec.md §3 "Layer
// overrides".
func (m *Monitor) EffectiveLayers(global *layer.List) *layer.List {
	if m.Layers != nil {
		return m.Layers
	}
	return global
}
