package daemon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hyprlax/hyprlax/internal/config"
	"github.com/hyprlax/hyprlax/internal/layer"
	"github.com/hyprlax/hyprlax/internal/renderer"
)

// addLayerSpec appends one configured layer to the global list, deferring
// its image decode to decodeAllPending (run concurrently at startup right
// before the event loop starts, and again by Reload) rather than decoding
// inline here.
func (d *Daemon) addLayerSpec(spec config.LayerSpec) error {
	l := d.layers.Add(spec.Image)
	l.ShiftMultiplier = orOne(spec.ShiftPixels)
	l.SetOpacity(orOne(spec.Opacity))
	l.SetBlur(spec.Blur)
	if spec.TintHex != "" {
		if tint, ok := parseHexColor(spec.TintHex); ok {
			l.Tint.R, l.Tint.G, l.Tint.B = tint[0], tint[1], tint[2]
		}
	}
	l.SetTintStrength(orOne(spec.TintStrength))
	d.applyGlobalDefaults(l)
	return nil
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// applyGlobalDefaults seeds a freshly added layer's overflow/margin fields
// from the daemon's current global config, per spec.md §3's "layer fields
// default to the global render settings unless overridden" rule.
func (d *Daemon) applyGlobalDefaults(l *layer.Layer) {
	l.Overflow = parseOverflow(d.cfg.OverflowMode)
	l.MarginPxX = d.cfg.MarginPxX
	l.MarginPxY = d.cfg.MarginPxY
	l.TileX = boolToTri(d.cfg.TileX)
	l.TileY = boolToTri(d.cfg.TileY)
}

func boolToTri(b bool) layer.Tri {
	if b {
		return layer.TriTrue
	}
	return layer.TriInherit
}

func parseOverflow(mode string) layer.Overflow {
	switch strings.ToLower(mode) {
	case "repeat":
		return layer.OverflowRepeat
	case "repeat_x", "repeat-x":
		return layer.OverflowRepeatX
	case "repeat_y", "repeat-y":
		return layer.OverflowRepeatY
	case "none":
		return layer.OverflowNone
	case "repeat_edge", "repeat-edge", "":
		return layer.OverflowRepeatEdge
	default:
		return layer.OverflowInherit
	}
}

// parseHexColor parses "#RRGGBB" into normalized [0,1] components.
func parseHexColor(hex string) ([3]float64, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return [3]float64{}, false
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseInt(hex[i*2:i*2+2], 16, 32)
		if err != nil {
			return [3]float64{}, false
		}
		out[i] = float64(n) / 255
	}
	return out, true
}

// decodeAllPending decodes every layer image not yet decoded, concurrently
// via the shared worker-pool loader, and stores each result for
// uploadPendingTextures to consume. Called at startup before the event
// loop begins and again by the Reload control command; AddLayer decodes
// its single path with decodeOneSync instead.
func (d *Daemon) decodeAllPending() {
	var paths []string
	seen := map[string]bool{}
	for _, l := range d.allLayers() {
		if seen[l.ImagePath] {
			continue
		}
		if _, already := d.decoded[l.ImagePath]; already {
			continue
		}
		seen[l.ImagePath] = true
		paths = append(paths, l.ImagePath)
	}
	if len(paths) == 0 {
		return
	}
	for _, res := range d.loader.DecodeAll(paths) {
		d.decoded[res.Path] = res
		if res.Err != nil {
			logrus.WithError(res.Err).WithField("image", res.Path).Warn("failed to decode layer image")
		}
	}
}

// decodeOneSync decodes a single image path synchronously, used by the
// AddLayer control command so a freshly added layer's texture is ready by
// the time the command's response is sent.
func (d *Daemon) decodeOneSync(path string) {
	if _, already := d.decoded[path]; already {
		return
	}
	res := <-d.loader.DecodeOne(path)
	d.decoded[path] = res
	if res.Err != nil {
		logrus.WithError(res.Err).WithField("image", path).Warn("failed to decode layer image")
	}
}

// uploadPendingTextures creates a GPU texture for every layer in the
// global list and every monitor override list whose image has finished
// decoding but has no texture yet. Safe to call repeatedly; idempotent
// per layer.
func (d *Daemon) uploadPendingTextures() {
	if d.gfx == nil {
		return
	}
	for _, l := range d.allLayers() {
		d.ensureTexture(l)
	}
}

func (d *Daemon) allLayers() []*layer.Layer {
	out := append([]*layer.Layer{}, d.layers.Ordered()...)
	for _, m := range d.monitors.All() {
		if m.Layers != nil {
			out = append(out, m.Layers.Ordered()...)
		}
	}
	return out
}

func (d *Daemon) ensureTexture(l *layer.Layer) {
	if l.HasTexture() || d.gfx == nil {
		return
	}
	res, ok := d.decoded[l.ImagePath]
	if !ok || res.Err != nil {
		return
	}
	tex, err := d.gfx.CreateTexture(res)
	if err != nil {
		logrus.WithError(err).WithField("image", l.ImagePath).Error("failed to upload layer texture")
		return
	}
	l.TextureHandle = tex
	l.TextureWidth = tex.Width
	l.TextureHeight = tex.Height
}

// applyLayerProperty sets one control-protocol property on a layer, per
// spec.md §4.7's `add`/`modify` property list. Layer has no distinct X/Y
// position fields, so "x"/"y" map onto the pixel margins that already shift
// a layer's fit rectangle; "scale" aliases "content_scale", both of which
// set ContentScale.
func applyLayerProperty(l *layer.Layer, prop, val string) error {
	switch prop {
	case "scale", "content_scale":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: %s must be numeric", prop)
		}
		l.ContentScale = v
	case "opacity":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: opacity must be numeric")
		}
		l.SetOpacity(v)
	case "x":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: x must be numeric")
		}
		l.MarginPxX = v
	case "y":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: y must be numeric")
		}
		l.MarginPxY = v
	case "z":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("daemon: z must be an integer")
		}
		l.Z = n
	case "fit":
		mode, ok := parseFitMode(val)
		if !ok {
			return fmt.Errorf("daemon: unknown fit mode %q", val)
		}
		l.FitMode = mode
	case "align_x":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: align_x must be numeric")
		}
		l.AlignX = v
	case "align_y":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: align_y must be numeric")
		}
		l.AlignY = v
	case "overflow":
		l.Overflow = parseOverflow(val)
	case "tile.x":
		l.TileX = boolToTri(val == "true" || val == "1")
	case "tile.y":
		l.TileY = boolToTri(val == "true" || val == "1")
	case "margin.x":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: margin.x must be numeric")
		}
		l.MarginPxX = v
	case "margin.y":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: margin.y must be numeric")
		}
		l.MarginPxY = v
	case "blur":
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("daemon: blur must be numeric")
		}
		l.SetBlur(v)
	case "tint":
		tint, ok := parseHexColor(val)
		if !ok {
			return fmt.Errorf("daemon: tint must be a #RRGGBB color")
		}
		l.Tint.R, l.Tint.G, l.Tint.B = tint[0], tint[1], tint[2]
	case "hidden":
		l.Hidden = val == "true" || val == "1"
	default:
		return fmt.Errorf("daemon: unknown layer property %q", prop)
	}
	return nil
}

func parseFitMode(val string) (layer.FitMode, bool) {
	switch strings.ToLower(val) {
	case "stretch":
		return layer.FitStretch, true
	case "cover":
		return layer.FitCover, true
	case "contain":
		return layer.FitContain, true
	case "width":
		return layer.FitWidth, true
	case "height":
		return layer.FitHeight, true
	default:
		return 0, false
	}
}

// textureOf recovers the renderer texture handle a layer carries, or nil.
func textureOf(l *layer.Layer) *renderer.Texture {
	tex, _ := l.TextureHandle.(*renderer.Texture)
	return tex
}

func (d *Daemon) destroyLayerTexture(l *layer.Layer) {
	if d.gfx == nil {
		return
	}
	if tex := textureOf(l); tex != nil {
		d.gfx.DestroyTexture(tex)
	}
	l.TextureHandle = nil
}
