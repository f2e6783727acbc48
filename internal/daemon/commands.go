package daemon

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hyprlax/hyprlax/internal/control"
	"github.com/hyprlax/hyprlax/internal/easing"
	"github.com/hyprlax/hyprlax/internal/herr"
	"github.com/hyprlax/hyprlax/internal/layer"
)

// Daemon implements control.Commands directly; the control server dispatches
// straight into the live layer lists and monitor registry the event loop
// also owns, matching spec.md §5's single-threaded scheduling model (both
// the loop and AcceptControl run on the same goroutine).
var _ control.Commands = (*Daemon)(nil)

func (d *Daemon) findLayer(id int32) *layer.Layer {
	if l := d.layers.Find(id); l != nil {
		return l
	}
	for _, m := range d.monitors.All() {
		if m.Layers == nil {
			continue
		}
		if l := m.Layers.Find(id); l != nil {
			return l
		}
	}
	return nil
}

// AddLayer creates a new global-list layer, decodes its image synchronously
// (spec.md §4.7 treats `add` as a blocking request/response), and uploads
// its texture immediately if a GPU surface already exists.
func (d *Daemon) AddLayer(path string, props map[string]string) (int32, error) {
	l := d.layers.Add(path)
	d.applyGlobalDefaults(l)
	l.ShiftMultiplier = 1
	l.SetOpacity(1)
	for k, v := range props {
		if err := applyLayerProperty(l, k, v); err != nil {
			d.layers.Remove(l.ID)
			return 0, err
		}
	}
	d.decodeOneSync(path)
	d.uploadPendingTextures()
	return l.ID, nil
}

func (d *Daemon) RemoveLayer(id int32) error {
	l := d.findLayer(id)
	if l == nil {
		return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("no layer with id %d", id))
	}
	d.destroyLayerTexture(l)
	if d.layers.Remove(id) {
		return nil
	}
	for _, m := range d.monitors.All() {
		if m.Layers != nil && m.Layers.Remove(id) {
			return nil
		}
	}
	return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("no layer with id %d", id))
}

func (d *Daemon) ModifyLayer(id int32, prop, val string) error {
	l := d.findLayer(id)
	if l == nil {
		return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("no layer with id %d", id))
	}
	return applyLayerProperty(l, prop, val)
}

func (d *Daemon) ListLayers(filter string) ([]control.LayerInfo, error) {
	var out []control.LayerInfo
	for _, l := range d.allLayers() {
		if filter != "" && !pathMatches(l.ImagePath, filter) {
			continue
		}
		out = append(out, control.LayerInfo{
			ID:         l.ID,
			Path:       l.ImagePath,
			Opacity:    l.Opacity,
			Scale:      l.ContentScale,
			Z:          l.Z,
			Hidden:     l.Hidden,
			HasTexture: l.HasTexture(),
		})
	}
	return out, nil
}

func pathMatches(path, filter string) bool {
	return len(filter) == 0 || contains(path, filter)
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func (d *Daemon) ClearLayers() error {
	for _, l := range d.layers.Ordered() {
		d.destroyLayerTexture(l)
		d.layers.Remove(l.ID)
	}
	for _, m := range d.monitors.All() {
		if m.Layers == nil {
			continue
		}
		for _, l := range m.Layers.Ordered() {
			d.destroyLayerTexture(l)
			m.Layers.Remove(l.ID)
		}
	}
	return nil
}

func (d *Daemon) ZOrder(op string, id int32) error {
	l := d.findLayer(id)
	if l == nil {
		return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("no layer with id %d", id))
	}
	list := d.layers
	for _, m := range d.monitors.All() {
		if m.Layers != nil && m.Layers.Find(id) != nil {
			list = m.Layers
			break
		}
	}
	ordered := list.Ordered()
	switch op {
	case "front":
		list.SetZ(id, ordered[len(ordered)-1].Z+1)
	case "back":
		list.SetZ(id, ordered[0].Z-1)
	case "up":
		list.SetZ(id, l.Z+1)
	case "down":
		list.SetZ(id, l.Z-1)
	default:
		return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("unknown z-order op %q", op))
	}
	return nil
}

func (d *Daemon) SetGlobal(prop, val string) error {
	switch prop {
	case "fps":
		n, err := strconv.Atoi(val)
		if err != nil {
			return herr.WithDetail(herr.ErrInvalidArgs, "fps must be an integer")
		}
		d.cfg.TargetFPS = n
		return d.loop.SetTargetFPS(n)
	case "shift", "shift_pixels":
		// spec.md §9's resolved ambiguity: "shift" is percent-of-screen-width
		// when a monitor is registered (so it scales with output size),
		// pixels otherwise; "shift_pixels" is always absolute.
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return herr.WithDetail(herr.ErrInvalidArgs, "shift must be numeric")
		}
		if prop == "shift" {
			if mon := d.monitors.Primary(); mon != nil && mon.Width > 0 {
				v = v / 100 * float64(mon.Width)
			}
		}
		d.cfg.ShiftPixels = v
		return nil
	case "duration":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return herr.WithDetail(herr.ErrInvalidArgs, "duration must be numeric")
		}
		d.cfg.AnimationDuration = v
		for _, m := range d.monitors.All() {
			m.DefaultDuration = time.Duration(v * float64(time.Second))
		}
		return nil
	case "easing":
		d.cfg.DefaultEasing = easing.Name(val)
		for _, m := range d.monitors.All() {
			m.DefaultEasing = d.cfg.DefaultEasing
		}
		return nil
	default:
		return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("unknown global property %q", prop))
	}
}

func (d *Daemon) GetGlobal(prop string) (string, error) {
	switch prop {
	case "fps":
		return strconv.Itoa(d.cfg.TargetFPS), nil
	case "shift", "shift_pixels":
		return strconv.FormatFloat(d.cfg.ShiftPixels, 'g', -1, 64), nil
	case "duration":
		return strconv.FormatFloat(d.cfg.AnimationDuration, 'g', -1, 64), nil
	case "easing":
		return string(d.cfg.DefaultEasing), nil
	default:
		return "", herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("unknown global property %q", prop))
	}
}

func (d *Daemon) Status() (control.StatusInfo, error) {
	return control.StatusInfo{
		CompositorName: d.comp.Name(),
		MonitorCount:   d.monitors.Count(),
		LayerCount:     len(d.allLayers()),
		TargetFPS:      d.cfg.TargetFPS,
	}, nil
}

// Reload replaces the global layer list with fresh layers built from the
// layer specs already held in d.cfg; the config file is not read again.
func (d *Daemon) Reload() error {
	for _, l := range d.layers.Ordered() {
		d.destroyLayerTexture(l)
	}
	d.layers = layer.NewList()
	for _, spec := range d.cfg.Layers {
		if err := d.addLayerSpec(spec); err != nil {
			return err
		}
	}
	d.decodeAllPending()
	d.uploadPendingTextures()
	return nil
}

func (d *Daemon) DiagTexinfo(id int32) (string, error) {
	l := d.findLayer(id)
	if l == nil {
		return "", herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("no layer with id %d", id))
	}
	if !l.HasTexture() {
		return fmt.Sprintf("layer %d has no texture loaded", id), nil
	}
	return fmt.Sprintf("layer %d texture %dx%d", id, l.TextureWidth, l.TextureHeight), nil
}
