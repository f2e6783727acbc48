package wayland

import (
	"context"
	"fmt"
	"time"

	"github.com/hyprlax/hyprlax/internal/netretry"
	"github.com/hyprlax/hyprlax/internal/platform"
)

// pointerEvent* match wl_pointer's enter, leave and motion event indices.
// No wl_pointer event is decoded: lastPointer is never set, so PollPointer
// always reports false.
const (
	pointerEventEnter  Opcode = 0
	pointerEventLeave  Opcode = 1
	pointerEventMotion Opcode = 2
)

// Adapter implements platform.Platform over the pure-Go wire protocol in
// this package.
type Adapter struct {
	display  *Display
	registry *Registry

	compositorID ObjectID
	layerShellID ObjectID
	seatID       ObjectID
	pointerID    ObjectID

	outputs map[ObjectID]*Output
	drawn   map[ObjectID]*Surface // output id -> surface

	lastPointer platform.PointerEvent
	pointerSet  bool

	pendingOutputEvents []platform.OutputEvent
	realized            map[ObjectID]bool
}

// New returns an unconnected wayland platform backend.
func New() *Adapter {
	return &Adapter{
		outputs:  make(map[ObjectID]*Output),
		drawn:    make(map[ObjectID]*Surface),
		realized: make(map[ObjectID]bool),
	}
}

func (a *Adapter) Name() string { return "wayland" }

// Connect dials the display socket with spec.md §4.2's retry budget, drains
// the initial registry globals, then binds wl_compositor,
// zwlr_layer_shell_v1 and, when advertised, wl_seat with its pointer. No
// wl_output is bound, so the outputs map stays empty and RealizeNow and
// PollOutputEvents report no outputs.
func (a *Adapter) Connect(ctx context.Context) error {
	var lastErr error
	opts := netretry.DefaultDisplayOptions()
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		d, err := Connect()
		if err == nil {
			a.display = d
			break
		}
		lastErr = err
		if attempt == opts.MaxRetries {
			return fmt.Errorf("wayland: connect: exhausted retries: %w", lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Delay):
		}
	}

	a.registry = NewRegistry(a.display)

	// Drain registry events (globals) until a 200ms read deadline passes,
	// in place of a wl_display.sync roundtrip. No event is read from the
	// connection after Connect returns.
	if err := a.drainInitialGlobals(); err != nil {
		return err
	}

	a.compositorID = a.display.AllocID()
	if ok, err := a.registry.BindInterface("wl_compositor", a.compositorID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("wayland: compositor does not advertise wl_compositor")
	}

	a.layerShellID = a.display.AllocID()
	if ok, err := a.registry.BindInterface("zwlr_layer_shell_v1", a.layerShellID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("wayland: compositor does not advertise zwlr_layer_shell_v1")
	}

	a.seatID = a.display.AllocID()
	if ok, _ := a.registry.BindInterface("wl_seat", a.seatID); ok {
		a.pointerID = a.display.AllocID()
		_ = a.display.SendMessage(NewMessageBuilder().
			PutNewID(a.pointerID).
			BuildMessage(a.seatID, 0)) // wl_seat::get_pointer opcode 0
	}

	return nil
}

// wl_registry emits a burst of globals right after get_registry; this
// drains them with a short read-until-idle loop rather than a formal
// wl_display.sync roundtrip, matching the scope-reduced wire protocol this
// package implements.
func (a *Adapter) drainInitialGlobals() error {
	a.display.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	defer a.display.conn.SetReadDeadline(time.Time{})
	for {
		ev, err := a.display.ReadEvent()
		if err != nil {
			return nil // deadline hit: assume the burst is done
		}
		if ev.Object == a.display.RegistryID() {
			a.registry.HandleEvent(ev)
		} else if ev.Object != displayObjectID {
			a.routeOutputEvent(ev)
		}
	}
}

func (a *Adapter) routeOutputEvent(ev Event) {
	out, ok := a.outputs[ev.Object]
	if !ok {
		return
	}
	if out.HandleEvent(ev) {
		a.pendingOutputEvents = append(a.pendingOutputEvents, platform.OutputEvent{
			Kind: platform.OutputAdded,
			Info: outputInfo(out),
		})
	}
}

func outputInfo(o *Output) platform.OutputInfo {
	return platform.OutputInfo{
		Handle:    o.ID,
		Name:      o.Name,
		Width:     int(o.Width),
		Height:    int(o.Height),
		Scale:     float64(o.Scale),
		RefreshHz: o.RefreshHz(),
		GlobalX:   int(o.GlobalX),
		GlobalY:   int(o.GlobalY),
	}
}

func (a *Adapter) EventFD() int {
	fd, ok := a.display.Fd()
	if !ok {
		return -1
	}
	return int(fd)
}

func (a *Adapter) PollOutputEvents() ([]platform.OutputEvent, error) {
	out := a.pendingOutputEvents
	a.pendingOutputEvents = nil
	return out, nil
}

// RealizeNow force-finalizes any output that has received geometry/mode
// but never a "done" event, per spec.md §4.2.
func (a *Adapter) RealizeNow() []platform.OutputInfo {
	var out []platform.OutputInfo
	for id, o := range a.outputs {
		if !o.Done {
			o.Width, o.Height, o.RefreshMHz = o.pendingWidth, o.pendingHeight, o.pendingRefresh
			o.Done = true
		}
		if !a.realized[id] {
			a.realized[id] = true
			out = append(out, outputInfo(o))
		}
	}
	return out
}

func (a *Adapter) PollPointer() (platform.PointerEvent, bool) {
	if !a.pointerSet {
		return platform.PointerEvent{}, false
	}
	a.pointerSet = false
	return a.lastPointer, true
}

func (a *Adapter) CreateSurface(output any) (any, error) {
	outID, ok := output.(ObjectID)
	if !ok {
		return nil, fmt.Errorf("wayland: CreateSurface: unexpected output handle type %T", output)
	}
	o, ok := a.outputs[outID]
	if !ok {
		return nil, fmt.Errorf("wayland: CreateSurface: unknown output")
	}
	surf, err := NewBackgroundSurface(a.display, a.compositorID, a.layerShellID, outID, o.Width, o.Height)
	if err != nil {
		return nil, err
	}
	a.drawn[outID] = surf
	return surf, nil
}

func (a *Adapter) Commit(drawable any, requestFrameCallback bool) error {
	surf, ok := drawable.(*Surface)
	if !ok {
		return fmt.Errorf("wayland: Commit: unexpected drawable type %T", drawable)
	}
	if requestFrameCallback {
		cbID := a.display.AllocID()
		if err := a.display.SendMessage(NewMessageBuilder().
			PutNewID(cbID).
			BuildMessage(surf.SurfaceID, surfaceRequestFrame)); err != nil {
			return err
		}
	}
	return surf.Commit()
}

func (a *Adapter) Capabilities() platform.Capability {
	caps := platform.CapLayerShell | platform.CapMultiOutput | platform.CapEventFD |
		platform.CapSurfaceCommit | platform.CapRealizeMonitors
	if a.pointerID != 0 {
		caps |= platform.CapGlobalCursor
	}
	return caps
}

func (a *Adapter) Close() error {
	if a.display != nil {
		return a.display.Disconnect()
	}
	return nil
}
