// Package river implements the River compositor adapter over River's
// zriver_status_manager_v1 Wayland protocol extension, bound through the
// registry rather than a socket, per spec.md §4.1. River's workspace model
// is TAG_BASED.
package river

import (
	"context"
	"fmt"
	"os"

	"github.com/hyprlax/hyprlax/internal/compositor"
	"github.com/hyprlax/hyprlax/internal/platform/wayland"
)

func init() {
	compositor.Register("river", func() compositor.Adapter { return &Adapter{} })
}

// zriver_output_status_v1 event opcodes.
const (
	outputStatusEventFocusedTags wayland.Opcode = 0
	outputStatusEventViewTags    wayland.Opcode = 1
	outputStatusEventUrgentTags  wayland.Opcode = 2
)

// zriver_status_manager_v1 request opcode.
const statusManagerRequestGetRiverOutputStatus wayland.Opcode = 1

// Adapter implements compositor.Adapter for River.
type Adapter struct {
	display  *wayland.Display
	registry *wayland.Registry

	statusManagerID wayland.ObjectID
	outputStatusID  wayland.ObjectID

	visibleTags uint32
	focusedTag  uint32
	urgentTags  uint32

	currentMonitor string
}

func (a *Adapter) Name() string { return "river" }

// Detect checks XDG_CURRENT_DESKTOP, the only static signal available
// without an active Wayland connection.
func (a *Adapter) Detect() bool {
	return os.Getenv("XDG_CURRENT_DESKTOP") == "river"
}

// Init expects platformHandle to be the already-connected *wayland.Display
// the platform backend is using, so River shares one Wayland connection
// with the rest of the daemon rather than opening a second.
func (a *Adapter) Init(ctx context.Context, platformHandle any) error {
	d, ok := platformHandle.(*wayland.Display)
	if !ok {
		return fmt.Errorf("river: Init requires a *wayland.Display platform handle, got %T", platformHandle)
	}
	a.display = d
	a.registry = wayland.NewRegistry(d)
	return nil
}

// ConnectIPC binds zriver_status_manager_v1; River has no separate socket
// transport. The per-output status object is requested by BindOutputStatus.
func (a *Adapter) ConnectIPC(ctx context.Context) error {
	a.statusManagerID = a.display.AllocID()
	ok, err := a.registry.BindInterface("zriver_status_manager_v1", a.statusManagerID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("river: compositor does not advertise zriver_status_manager_v1")
	}
	return nil
}

// BindOutputStatus requests a zriver_output_status_v1 object for outputID,
// whose focused_tags and urgent_tags events HandleWireEvent decodes (other
// events are ignored). Exposed separately from ConnectIPC since the output id is only
// known once the platform has realized at least one monitor.
func (a *Adapter) BindOutputStatus(outputID wayland.ObjectID) error {
	a.outputStatusID = a.display.AllocID()
	b := wayland.NewMessageBuilder().PutNewID(a.outputStatusID).PutObject(outputID)
	return a.display.SendMessage(b.BuildMessage(a.statusManagerID, statusManagerRequestGetRiverOutputStatus))
}

// HandleWireEvent decodes one event targeting the bound output-status
// object. Neither the daemon nor internal/eventloop calls it: raw
// wayland.Event values are not routed to this adapter, so River tag changes
// do not reach the daemon as workspace events.
func (a *Adapter) HandleWireEvent(ev wayland.Event) (compositor.Event, bool) {
	if ev.Object != a.outputStatusID {
		return compositor.Event{}, false
	}
	r := wayland.NewEventArgReader(ev.Args)
	switch ev.Opcode {
	case outputStatusEventFocusedTags:
		newTags := r.Uint32()
		if newTags == a.visibleTags {
			return compositor.Event{}, false
		}
		a.visibleTags = newTags
		a.focusedTag = newTags
		return compositor.Event{MonitorName: a.currentMonitor}, true
	case outputStatusEventUrgentTags:
		a.urgentTags = r.Uint32()
		return compositor.Event{}, false
	default:
		return compositor.Event{}, false
	}
}

func (a *Adapter) PollEvents() (compositor.Event, bool, error) {
	// River events are decoded only by HandleWireEvent; PollEvents always
	// reports no event.
	return compositor.Event{}, false, nil
}

func (a *Adapter) EventFD() int { return -1 }

func (a *Adapter) GetCursorPosition() (x, y float64, ok bool) { return 0, 0, false }

func (a *Adapter) GetActiveWindowGeometry() (compositor.WindowGeometry, bool) {
	return compositor.WindowGeometry{}, false
}

func (a *Adapter) SendCommand(cmd string) ([]byte, error) {
	return nil, fmt.Errorf("river: SendCommand not supported (no command transport)")
}

func (a *Adapter) Capabilities() compositor.Capability {
	return compositor.CapWorkspaceTagBased
}

func (a *Adapter) Close() error { return nil }

// VisibleTags/FocusedTag/UrgentTags expose the latest decoded tag state for
// the workspace package's Context construction.
func (a *Adapter) VisibleTags() uint32 { return a.visibleTags }
func (a *Adapter) FocusedTag() uint32  { return a.focusedTag }
func (a *Adapter) UrgentTags() uint32  { return a.urgentTags }
