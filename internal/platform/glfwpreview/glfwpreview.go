// Package glfwpreview implements platform.Platform using the teacher
// engine's GLFW-backed window package for development and testing on a
// desktop session without a compositor's layer-shell extension. Each
// simulated "output" is one ordinary OS window; CreateSurface returns the
// window itself as the drawable.
package glfwpreview

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyprlax/hyprlax/engine/window"
	"github.com/hyprlax/hyprlax/internal/platform"
)

// Adapter implements platform.Platform by opening one window.Window per
// configured preview monitor, grounded on engine/window's builder-pattern
// NewWindow/WindowBuilderOption API.
type Adapter struct {
	mu sync.Mutex

	windows map[string]window.Window
	infos   map[string]platform.OutputInfo

	pointer platform.PointerEvent
	pointerSet bool

	// PreviewMonitors configures the simulated outputs this backend
	// realizes on Connect; defaults to a single 1920x1080 window named
	// "preview-0" when left empty.
	PreviewMonitors []platform.OutputInfo
}

// New returns an unconnected glfwpreview backend.
func New() *Adapter {
	return &Adapter{
		windows: make(map[string]window.Window),
		infos:   make(map[string]platform.OutputInfo),
	}
}

func (a *Adapter) Name() string { return "glfwpreview" }

// Connect opens one window.Window per configured preview monitor. There is
// no real startup race to retry here (no compositor socket involved), so
// spec.md §4.2's retry budget does not apply to this backend.
func (a *Adapter) Connect(ctx context.Context) error {
	monitors := a.PreviewMonitors
	if len(monitors) == 0 {
		monitors = []platform.OutputInfo{{Name: "preview-0", Width: 1920, Height: 1080, Scale: 1, RefreshHz: 60, Primary: true}}
	}
	for _, m := range monitors {
		w := window.NewWindow(
			window.WithTitle(fmt.Sprintf("hyprlax preview: %s", m.Name)),
			window.WithMinWidth(m.Width),
			window.WithMinHeight(m.Height),
		)
		w.SetMouseMoveCallback(a.onMouseMove(m.Name, m))
		a.windows[m.Name] = w
		a.infos[m.Name] = m
	}
	return nil
}

func (a *Adapter) onMouseMove(name string, info platform.OutputInfo) func(x, y int32) {
	return func(x, y int32) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.pointer = platform.PointerEvent{
			GlobalX: float64(info.GlobalX) + float64(x),
			GlobalY: float64(info.GlobalY) + float64(y),
			Valid:   true,
		}
		a.pointerSet = true
	}
}

// EventFD: GLFW's message loop is not fd-driven on this platform binding
// (ProcessMessages polls internally), so there is no fd to register with
// the event loop. Nothing in the daemon calls a window's ProcessMessages,
// so GLFW input callbacks, mouse motion included, are not pumped.
func (a *Adapter) EventFD() int { return -1 }

func (a *Adapter) PollOutputEvents() ([]platform.OutputEvent, error) {
	// Preview monitors are fixed at Connect time — no hotplug simulation.
	return nil, nil
}

func (a *Adapter) RealizeNow() []platform.OutputInfo {
	out := make([]platform.OutputInfo, 0, len(a.infos))
	for _, info := range a.infos {
		out = append(out, info)
	}
	return out
}

func (a *Adapter) PollPointer() (platform.PointerEvent, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.pointerSet {
		return platform.PointerEvent{}, false
	}
	a.pointerSet = false
	return a.pointer, true
}

func (a *Adapter) CreateSurface(output any) (any, error) {
	name, ok := output.(string)
	if !ok {
		return nil, fmt.Errorf("glfwpreview: CreateSurface: unexpected output handle type %T", output)
	}
	w, ok := a.windows[name]
	if !ok {
		return nil, fmt.Errorf("glfwpreview: CreateSurface: unknown preview monitor %q", name)
	}
	return w, nil
}

// Commit has nothing to flush explicitly: the renderer's Present shows each
// frame on the window's surface. requestFrameCallback is ignored since this
// backend has no compositor frame-callback protocol.
func (a *Adapter) Commit(drawable any, requestFrameCallback bool) error {
	if _, ok := drawable.(window.Window); !ok {
		return fmt.Errorf("glfwpreview: Commit: unexpected drawable type %T", drawable)
	}
	return nil
}

func (a *Adapter) Capabilities() platform.Capability {
	return platform.CapMultiOutput | platform.CapWindowSizeQuery |
		platform.CapSurfaceCommit | platform.CapGlobalCursor | platform.CapRealizeMonitors
}

func (a *Adapter) Close() error {
	var firstErr error
	for _, w := range a.windows {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
