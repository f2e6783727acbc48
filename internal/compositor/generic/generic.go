// Package generic implements the GENERIC_WAYLAND fallback compositor
// adapter: no IPC, a single fixed workspace, used when no recognized
// compositor is detected (spec.md §4.1).
package generic

import (
	"context"

	"github.com/hyprlax/hyprlax/internal/compositor"
)

func init() {
	compositor.Register("generic", func() compositor.Adapter { return &Adapter{} })
}

// Adapter is the do-nothing fallback: it always detects positively (so
// Create("auto") never fails to produce something) and never emits events.
type Adapter struct{}

func (a *Adapter) Name() string { return "generic" }

// Detect always succeeds — generic is the backstop after every named
// compositor has failed to detect, per spec.md §4.1's detection order.
func (a *Adapter) Detect() bool { return true }

func (a *Adapter) Init(ctx context.Context, platformHandle any) error { return nil }

func (a *Adapter) ConnectIPC(ctx context.Context) error { return nil }

func (a *Adapter) PollEvents() (compositor.Event, bool, error) {
	return compositor.Event{}, false, nil
}

// EventFD returns -1: generic has no events fd to multiplex on.
func (a *Adapter) EventFD() int { return -1 }

func (a *Adapter) GetCursorPosition() (x, y float64, ok bool) { return 0, 0, false }

func (a *Adapter) GetActiveWindowGeometry() (compositor.WindowGeometry, bool) {
	return compositor.WindowGeometry{}, false
}

func (a *Adapter) SendCommand(cmd string) ([]byte, error) { return nil, nil }

func (a *Adapter) Capabilities() compositor.Capability {
	return compositor.CapWorkspaceGlobalNumeric
}

func (a *Adapter) Close() error { return nil }
