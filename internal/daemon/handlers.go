package daemon

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hyprlax/hyprlax/internal/compositor"
	"github.com/hyprlax/hyprlax/internal/eventloop"
	"github.com/hyprlax/hyprlax/internal/platform"
	"github.com/hyprlax/hyprlax/internal/workspace"
)

// handlers builds the eventloop.Handlers wiring every subsystem into the
// single-threaded run loop of spec.md §4.6.
func (d *Daemon) handlers() eventloop.Handlers {
	return eventloop.Handlers{
		PollPlatform:   d.pollPlatform,
		PollCompositor: d.pollCompositor,
		AcceptControl:  d.ctlServer.AcceptOne,
		UpdateCursor:   d.updateCursor,
		TickAnimations: d.tickAnimations,
		Render:         d.render,
		ApplyDebounced: d.applyDebounced,
	}
}

// pollPlatform drains output hotplug events and the latest pointer sample.
func (d *Daemon) pollPlatform() error {
	events, err := d.plat.PollOutputEvents()
	if err != nil {
		return err
	}
	for _, ev := range events {
		switch ev.Kind {
		case platform.OutputAdded, platform.OutputReconfigured:
			d.applyOutputEvent(ev.Info)
		case platform.OutputRemoved:
			d.removeMonitorByHandle(ev.Info.Handle)
		}
	}

	if p, ok := d.plat.PollPointer(); ok {
		d.lastPointer = p
	}
	return nil
}

// applyOutputEvent adds a newly realized output or updates an existing
// monitor's geometry in place on reconfigure.
func (d *Daemon) applyOutputEvent(info platform.OutputInfo) {
	if mon := d.monitors.ByOutput(info.Handle); mon != nil {
		mon.Width, mon.Height = info.Width, info.Height
		mon.Scale = info.Scale
		mon.RefreshHz = info.RefreshHz
		mon.GlobalX, mon.GlobalY = info.GlobalX, info.GlobalY
		if ms, ok := d.surfaces[mon.Name]; ok {
			if err := d.gfx.Resize(ms, info.Width, info.Height); err != nil {
				logrus.WithError(err).WithField("monitor", mon.Name).Error("resize failed")
			}
		}
		return
	}
	d.addMonitor(info)
}

func (d *Daemon) removeMonitorByHandle(handle any) {
	mon := d.monitors.ByOutput(handle)
	if mon == nil {
		return
	}
	delete(d.surfaces, mon.Name)
	delete(d.mixers, mon.Name)
	d.monitors.Remove(handle)
}

// pollCompositor normalizes one compositor.Event into a workspace.ChangeEvent.
// Adapters report either a single linear id or an explicit 2D coordinate
// pair; Has2D says which, and applyDebounced uses it to pick the right
// workspace.Context shape for this adapter's capability. River's PollEvents
// never reports an event, so River tag changes do not reach this path.
func (d *Daemon) pollCompositor() (workspace.ChangeEvent, bool, error) {
	ev, ok, err := d.comp.PollEvents()
	if err != nil || !ok {
		return workspace.ChangeEvent{}, false, err
	}
	return workspace.ChangeEvent{
		MonitorName: ev.MonitorName,
		FromID:      ev.FromWSID,
		ToID:        ev.ToWSID,
		FromX:       ev.FromX,
		FromY:       ev.FromY,
		ToX:         ev.ToX,
		ToY:         ev.ToY,
		Has2D:       ev.Has2D,
	}, true, nil
}

// contextFor builds the workspace.Context this daemon's compositor should
// use for a transition's to-side, per spec.md §4.1 rule 5: a 2D event
// (niri's scrolling-layout column/row, wayfire's grid x/y) carries its own
// from/to coordinates, but the monitor's own cached CurrentContext — not
// ev.FromX/FromY — is always the "from" side (pollCompositor's -1 sentinel
// for "unknown prior" therefore never needs separate handling here: it is
// simply never consulted).
func (d *Daemon) contextFor(ev workspace.ChangeEvent) workspace.Context {
	if !ev.Has2D {
		return workspace.Context{Kind: workspace.GlobalNumeric, ID: ev.ToID}
	}
	if d.compCaps.Has(compositor.CapWorkspaceSetBased) {
		return workspace.Context{Kind: workspace.SetBased, GridSet: true, GridX: ev.ToX, GridY: ev.ToY}
	}
	return workspace.Context{Kind: workspace.PerOutputNumeric, GridSet: true, GridX: ev.ToX, GridY: ev.ToY}
}

// applyDebounced routes one coalesced workspace.ChangeEvent to its target
// monitor, per spec.md §4.4's handle_context_change, then pushes the same
// delta into every affected layer's own animation, scaled by its
// shift_multiplier. Layer carries no duration/easing fields of its own (only
// an Anim), so per-layer animations reuse the owning monitor's
// DefaultDuration/DefaultEasing — independent per-layer *state* (each
// layer's Anim tracks its own current/target), not independently
// configurable timing.
func (d *Daemon) applyDebounced(ev workspace.ChangeEvent, now time.Time) {
	mon := d.monitors.ByName(ev.MonitorName)
	if mon == nil {
		mon = d.monitors.Primary()
	}
	if mon == nil {
		return
	}

	newCtx := d.contextFor(ev)
	prevCtx := mon.CurrentContext()

	mon.HandleContextChange(newCtx, d.cfg.ShiftPixels, d.policy, mon.DefaultDuration, mon.DefaultEasing, now)

	if mon.CurrentContext().Equal(prevCtx) {
		return
	}
	delta := workspace.ComputeOffset(prevCtx, newCtx, d.cfg.ShiftPixels, d.policy)

	for _, l := range mon.EffectiveLayers(d.layers).Ordered() {
		l.Anim.AddTarget(delta.X*l.ShiftMultiplier, delta.Y*l.ShiftMultiplier, mon.DefaultDuration, mon.DefaultEasing, now)
	}
}

// tickAnimations advances every monitor's and every visible layer's
// animation state, returning whether any are still in motion.
func (d *Daemon) tickAnimations(now time.Time) bool {
	anyActive := false
	for _, mon := range d.monitors.All() {
		if mon.Tick(now) {
			anyActive = true
		}
		for _, l := range mon.EffectiveLayers(d.layers).Ordered() {
			if l.Anim.Tick(now) {
				anyActive = true
			}
		}
	}
	if d.monitors.Count() == 0 {
		for _, l := range d.layers.Ordered() {
			if l.Anim.Tick(now) {
				anyActive = true
			}
		}
	}
	return anyActive
}

// updateCursor refreshes d.lastPointer from the compositor's own cursor
// query when the compositor supports one, overwriting any sample
// pollPlatform took from platform pointer motion; otherwise d.lastPointer
// keeps the platform's sample.
func (d *Daemon) updateCursor() {
	if d.compCaps.Has(compositor.CapGlobalCursor) {
		if x, y, ok := d.comp.GetCursorPosition(); ok {
			d.lastPointer = platform.PointerEvent{GlobalX: x, GlobalY: y, Valid: true}
		}
	}
}
