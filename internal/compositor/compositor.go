// Package compositor normalizes five compositor families (Hyprland, Sway,
// Niri, Wayfire, River) plus a fallback generic Wayland backend behind one
// Adapter contract, per spec.md §4.1.
package compositor

import "context"

// Capability is a single bit in the compositor capability bitset described
// in spec.md §3 "Compositor capabilities".
type Capability uint64

const (
	CapGlobalCursor Capability = 1 << iota
	CapWorkspaceGlobalNumeric
	CapWorkspacePerOutputNumeric
	CapWorkspaceTagBased
	CapWorkspaceSetBased
)

// Has reports whether bit is set in the bitset.
func (c Capability) Has(bit Capability) bool { return c&bit != 0 }

// WindowGeometry describes the focused window, returned by
// GetActiveWindowGeometry.
type WindowGeometry struct {
	X, Y          int
	W, H          int
	WorkspaceID   int32
	MonitorID     int32
	MonitorName   string
	Floating      bool
}

// Event is the normalized workspace-change event emitted by poll_events,
// per spec.md §4.1 "Normalized event".
type Event struct {
	FromWSID, ToWSID       int32
	FromX, FromY, ToX, ToY int32
	MonitorName            string

	// Has2D marks adapters (niri, wayfire) that report an explicit
	// (x,y) pair rather than a single linear id, so From/ToX/Y carry real
	// data even when both components happen to be zero.
	Has2D bool
}

// Adapter is the compositor abstraction contract every backend implements,
// per spec.md §4.1's pseudocode surface.
type Adapter interface {
	// Name reports the backend's identifier (e.g. "hyprland").
	Name() string

	// Detect reports whether this backend's compositor is currently
	// running, based on env vars and, only if ambiguous, light probes.
	Detect() bool

	// Init binds whatever platform context the adapter needs (most
	// adapters ignore it; River resolves its Wayland protocol extension
	// through it).
	Init(ctx context.Context, platformHandle any) error

	// ConnectIPC establishes the backend's transport (socket dial,
	// subprocess spawn, protocol bind), retrying per spec.md §4.1's
	// socket-readiness rules where applicable.
	ConnectIPC(ctx context.Context) error

	// PollEvents drains and decodes at most one normalized event per call.
	// Returns ok=false when there was nothing to report this call.
	PollEvents() (ev Event, ok bool, err error)

	// EventFD returns a pollable file descriptor for the event loop to
	// multiplex on, or -1 if this backend has no fd (GENERIC_WAYLAND).
	EventFD() int

	// GetCursorPosition returns the global pointer position if this
	// backend can query it independently of the platform layer.
	GetCursorPosition() (x, y float64, ok bool)

	// GetActiveWindowGeometry returns the focused window's geometry, if
	// the backend supports window queries.
	GetActiveWindowGeometry() (WindowGeometry, bool)

	// SendCommand issues a backend-specific one-shot IPC command (used
	// only internally by adapters that need compositor-side queries, not
	// exposed through the control protocol).
	SendCommand(cmd string) (response []byte, err error)

	// Capabilities returns this adapter's normalized capability bitset.
	Capabilities() Capability

	// Close tears down the IPC transport.
	Close() error
}

// DetectionOrder is the fixed first-positive-wins probe order from
// spec.md §4.1.
var DetectionOrder = []string{"hyprland", "wayfire", "niri", "sway", "river", "generic"}

// Factory constructs a named backend's Adapter. Registered by each backend
// package's init() via Register, avoiding a hand-maintained switch here
// that would need editing whenever a backend is added.
type Factory func() Adapter

var registry = map[string]Factory{}

// Register adds a named backend constructor. Called from each backend
// package's init(). Panics on duplicate registration, a programmer error.
func Register(name string, f Factory) {
	if _, exists := registry[name]; exists {
		panic("compositor: duplicate backend registration for " + name)
	}
	registry[name] = f
}

// aliases maps the names accepted by create(name_or_auto) in spec.md §4.1
// to their canonical registered backend name.
var aliases = map[string]string{
	"wayland": "generic",
}

// Create maps a name (or "auto") to an Adapter instance. "auto" runs
// DetectionOrder and returns the first backend whose Detect() succeeds,
// falling back to generic if none do. Unknown names return ok=false.
func Create(name string) (Adapter, bool) {
	if name == "auto" || name == "" {
		for _, candidate := range DetectionOrder {
			f, ok := registry[candidate]
			if !ok {
				continue
			}
			a := f()
			if a.Detect() {
				return a, true
			}
		}
		if f, ok := registry["generic"]; ok {
			return f(), true
		}
		return nil, false
	}
	if canon, ok := aliases[name]; ok {
		name = canon
	}
	f, ok := registry[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// EffectiveCapabilities forces the global_cursor capability bit on when an
// adapter currently answers a working GetCursorPosition, even if the
// backend didn't declare it statically in its own Capabilities(), per
// spec.md §4.1 "Capability normalization". The bootstrap calls this once
// after ConnectIPC rather than trusting each backend's static bitset.
func EffectiveCapabilities(a Adapter) Capability {
	base := a.Capabilities()
	if _, _, ok := a.GetCursorPosition(); ok {
		base |= CapGlobalCursor
	}
	return base
}
