package animation

import (
	"time"

	"github.com/hyprlax/hyprlax/internal/easing"
)

// Axis2D bundles the X and Y Axis pair every Monitor and Layer carries, since
// spec.md §3 always animates offsets in both dimensions together (2D
// backends populate both; 1D backends simply leave Y at rest).
type Axis2D struct {
	X *Axis
	Y *Axis
}

// NewAxis2D returns a rest-state Axis2D.
func NewAxis2D() *Axis2D {
	return &Axis2D{X: NewAxis(), Y: NewAxis()}
}

// Current returns the current (x, y) offset.
func (a *Axis2D) Current() (x, y float64) { return a.X.Current(), a.Y.Current() }

// Active reports whether either axis still has an in-flight animation.
func (a *Axis2D) Active() bool { return a.X.Active() || a.Y.Active() }

// AddTarget offsets both axes' targets by (dx, dy), restarting both
// animations from their current values.
func (a *Axis2D) AddTarget(dx, dy float64, duration time.Duration, curve easing.Name, now time.Time) {
	a.X.AddTarget(dx, duration, curve, now)
	a.Y.AddTarget(dy, duration, curve, now)
}

// Tick advances both axes; returns true if either is still animating.
func (a *Axis2D) Tick(now time.Time) bool {
	x := a.X.Tick(now)
	y := a.Y.Tick(now)
	return x || y
}
