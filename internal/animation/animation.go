// Package animation implements the per-axis animation state machine shared
// by monitors and layers: {start, target, current, start_time, duration,
// easing, active}, ticked once per frame by the event loop.
package animation

import (
	"time"

	"github.com/hyprlax/hyprlax/internal/easing"
)

// Axis holds one animated scalar's full state, per spec.md §3 "Animation state".
type Axis struct {
	start   float64
	target  float64
	current float64

	startTime time.Time
	duration  time.Duration
	curve     easing.Name

	active bool
}

// NewAxis returns an Axis initialized to rest at value 0.
func NewAxis() *Axis {
	return &Axis{curve: easing.Linear}
}

// Current returns the axis's current (possibly mid-animation) value.
func (a *Axis) Current() float64 { return a.current }

// Target returns the value the axis is animating towards (or at rest on).
func (a *Axis) Target() float64 { return a.target }

// Active reports whether the axis has an in-flight animation.
func (a *Axis) Active() bool { return a.active }

// Set immediately assigns current and target with no animation — used at
// initialization and when an axis should snap rather than ease.
func (a *Axis) Set(value float64) {
	a.start, a.current, a.target = value, value, value
	a.active = false
}

// AnimateTo restarts the animation from the current value towards target
// over duration using curve, starting at now. Matches the monitor workspace
// handler in spec.md §4.4: start_{x,y} = current_{x,y}; start_time = now.
func (a *Axis) AnimateTo(target float64, duration time.Duration, curve easing.Name, now time.Time) {
	a.start = a.current
	a.target = target
	a.startTime = now
	a.duration = duration
	a.curve = curve
	a.active = true
}

// AddTarget offsets the animation's target by delta, restarting the
// animation from the current value — the shape spec.md §4.4 uses for
// workspace-change deltas ("monitor.target_x += delta.x").
func (a *Axis) AddTarget(delta float64, duration time.Duration, curve easing.Name, now time.Time) {
	a.AnimateTo(a.target+delta, duration, curve, now)
}

// Tick advances the animation to now, updating Current(). Returns whether
// the axis is still active after the tick (false once the animation has
// completed, at which point Current()==Target()).
func (a *Axis) Tick(now time.Time) bool {
	if !a.active {
		return false
	}
	if a.duration <= 0 {
		a.current = a.target
		a.active = false
		return false
	}
	elapsed := now.Sub(a.startTime)
	if elapsed >= a.duration {
		a.current = a.target
		a.active = false
		return false
	}
	if elapsed < 0 {
		elapsed = 0
	}
	t := float64(elapsed) / float64(a.duration)
	eased := easing.Lookup(a.curve)(t)
	a.current = a.start + (a.target-a.start)*eased
	return true
}
