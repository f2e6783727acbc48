package daemon

import (
	"github.com/sirupsen/logrus"

	"github.com/hyprlax/hyprlax/internal/compositor"
	"github.com/hyprlax/hyprlax/internal/layer"
	"github.com/hyprlax/hyprlax/internal/mixer"
	"github.com/hyprlax/hyprlax/internal/monitor"
	"github.com/hyprlax/hyprlax/internal/renderer"
)

// render draws every monitor that has a live GPU surface, per spec.md
// §4.3/§4.6: one BeginFrame/Clear/DrawLayerEx.../EndFrame/Present cycle per
// monitor, each monitor's layers drawn back-to-front by z order.
func (d *Daemon) render() {
	if d.gfx == nil {
		return
	}

	windowGeom, haveWindow := d.comp.GetActiveWindowGeometry()

	for _, mon := range d.monitors.All() {
		ms, ok := d.surfaces[mon.Name]
		if !ok {
			continue
		}

		mx := d.mixers[mon.Name]
		dx, dy := d.mixOffset(mon, mx, windowGeom, haveWindow)

		if err := d.gfx.MakeCurrent(ms); err != nil {
			logrus.WithError(err).WithField("monitor", mon.Name).Error("make current failed")
			continue
		}
		if err := d.gfx.BeginFrame(ms); err != nil {
			logrus.WithError(err).WithField("monitor", mon.Name).Error("begin frame failed")
			continue
		}
		if err := d.gfx.Clear(ms, [4]float64{0, 0, 0, 1}); err != nil {
			logrus.WithError(err).WithField("monitor", mon.Name).Error("clear failed")
		}

		for _, l := range mon.EffectiveLayers(d.layers).Ordered() {
			if l.Hidden || !l.HasTexture() {
				continue
			}
			tex := textureOf(l)
			if tex == nil {
				continue
			}
			d.drawLayer(ms, mon, l, tex, dx, dy)
		}

		if err := d.gfx.EndFrame(ms); err != nil {
			logrus.WithError(err).WithField("monitor", mon.Name).Error("end frame failed")
		}
		d.gfx.Present(ms)
		d.plat.Commit(mon.Drawable, true)
	}
}

// mixOffset assembles this frame's mixer.Input from the monitor's own
// workspace-driven animation plus whatever cursor/window samples are
// currently available, and returns the combined pixel offset.
func (d *Daemon) mixOffset(mon *monitor.Monitor, mx *mixer.Mixer, windowGeom compositor.WindowGeometry, haveWindow bool) (float64, float64) {
	wx, wy := mon.Anim.Current()

	in := mixer.Input{
		WorkspaceX: wx,
		WorkspaceY: wy,
		MonitorGeometry: mixer.Geometry{
			OriginX: float64(mon.GlobalX),
			OriginY: float64(mon.GlobalY),
			Width:   float64(mon.Width),
			Height:  float64(mon.Height),
		},
	}

	if d.lastPointer.Valid {
		in.CursorGlobalX, in.CursorGlobalY = d.lastPointer.GlobalX, d.lastPointer.GlobalY
		in.CursorOK = true
	} else if x, y, ok := d.comp.GetCursorPosition(); ok {
		in.CursorGlobalX, in.CursorGlobalY = x, y
		in.CursorOK = true
	}

	if haveWindow && windowGeom.MonitorName == mon.Name {
		in.WindowCenterX, in.WindowCenterY = mixer.WindowCenter(windowGeom.X, windowGeom.Y, windowGeom.W, windowGeom.H)
		in.WindowOK = true
	}

	return mx.Mix(in)
}

func (d *Daemon) drawLayer(ms *renderer.MonitorSurface, mon *monitor.Monitor, l *layer.Layer, tex *renderer.Texture, dx, dy float64) {
	fit := renderer.ComputeFit(l.FitMode, float64(mon.Width), float64(mon.Height), float64(l.TextureWidth), float64(l.TextureHeight), l.ContentScale, l.AlignX, l.AlignY)

	offsetScale := renderer.OffsetScale(l.ContentScale)
	offsetXNDC := (dx*l.ShiftMultiplier + l.MarginPxX) / (float64(mon.Width) / 2) * offsetScale
	offsetYNDC := (dy*l.ShiftMultiplier + l.MarginPxY) / (float64(mon.Height) / 2) * offsetScale

	tileX := l.EffectiveTileX(d.cfg.TileX)
	tileY := l.EffectiveTileY(d.cfg.TileY)
	wrapX := renderer.ResolveWrap(tileX)
	wrapY := renderer.ResolveWrap(tileY)
	overflow := l.EffectiveOverflow(parseOverflow(d.cfg.OverflowMode))
	discardX := renderer.DiscardOutsideUnit(overflow, tileX)
	discardY := renderer.DiscardOutsideUnit(overflow, tileY)

	params := renderer.NewDrawParams(fit, offsetXNDC, offsetYNDC, l.Opacity, l.BlurAmount,
		[3]float64{l.Tint.R, l.Tint.G, l.Tint.B}, l.Tint.Strength, discardX, discardY)

	if err := d.gfx.DrawLayerEx(ms, tex, params, wrapX, wrapY, false); err != nil {
		logrus.WithError(err).WithField("monitor", mon.Name).Error("draw layer failed")
	}
}
