// Package platform defines the windowing-system abstraction contract
// (spec.md §4.2) implemented by the wayland (production) and glfwpreview
// (development/testing) backends.
package platform

import "context"

// Capability is a single bit in the platform capability bitset described in
// spec.md §3 "Platform capabilities".
type Capability uint64

const (
	CapLayerShell Capability = 1 << iota
	CapMultiOutput
	CapEventFD
	CapWindowSizeQuery
	CapSurfaceCommit
	CapGlobalCursor
	CapRealizeMonitors
	CapSetContext
)

func (c Capability) Has(bit Capability) bool { return c&bit != 0 }

// OutputInfo is the geometry/identity snapshot a Platform reports for one
// realized output.
type OutputInfo struct {
	Handle        any
	Name          string
	Width, Height int
	Scale         float64
	RefreshHz     float64
	GlobalX       int
	GlobalY       int
	Primary       bool
}

// OutputEvent is emitted on hotplug/reconfigure.
type OutputEventKind int

const (
	OutputAdded OutputEventKind = iota
	OutputRemoved
	OutputReconfigured
)

type OutputEvent struct {
	Kind OutputEventKind
	Info OutputInfo
}

// PointerEvent carries a motion update in global (compositor) space.
type PointerEvent struct {
	GlobalX, GlobalY float64
	Valid            bool
}

// Platform is the windowing-system contract every backend implements, per
// spec.md §4.2's prose responsibilities.
type Platform interface {
	// Name reports the backend identifier ("wayland", "glfwpreview").
	Name() string

	// Connect acquires the windowing-system connection, retrying per
	// spec.md §4.2's (max_retries=150, delay_ms=100) startup-race budget.
	Connect(ctx context.Context) error

	// EventFD returns a pollable fd for the event loop, or -1 if unsupported.
	EventFD() int

	// PollOutputEvents drains and returns newly observed output add/remove/
	// reconfigure events since the last call.
	PollOutputEvents() ([]OutputEvent, error)

	// RealizeNow force-finalizes any partially-known outputs so the
	// bootstrap can render before the first natural "done" event, per
	// spec.md §4.2 "Monitor realization".
	RealizeNow() []OutputInfo

	// PollPointer returns the latest pointer motion, if any arrived since
	// the last call.
	PollPointer() (PointerEvent, bool)

	// CreateSurface creates the input-transparent background surface for
	// the given output handle, anchored to all four edges per spec.md §4.2.
	CreateSurface(output any) (drawable any, err error)

	// Commit commits a surface, optionally requesting a frame callback for
	// pacing (spec.md §4.6 "Frame-callback mode").
	Commit(drawable any, requestFrameCallback bool) error

	// Capabilities returns this backend's capability bitset.
	Capabilities() Capability

	// Close tears down the windowing-system connection.
	Close() error
}
