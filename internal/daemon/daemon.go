// Package daemon wires every subsystem of one hyprlax process together:
// platform and compositor adapters, the monitor registry and layer lists,
// the GPU renderer, the control socket, and the event loop driving them,
// per spec.md §4.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hyprlax/hyprlax/common"
	"github.com/hyprlax/hyprlax/internal/compositor"
	_ "github.com/hyprlax/hyprlax/internal/compositor/generic"
	_ "github.com/hyprlax/hyprlax/internal/compositor/hyprland"
	_ "github.com/hyprlax/hyprlax/internal/compositor/niri"
	_ "github.com/hyprlax/hyprlax/internal/compositor/river"
	_ "github.com/hyprlax/hyprlax/internal/compositor/sway"
	_ "github.com/hyprlax/hyprlax/internal/compositor/wayfire"
	"github.com/hyprlax/hyprlax/internal/config"
	"github.com/hyprlax/hyprlax/internal/control"
	"github.com/hyprlax/hyprlax/internal/eventloop"
	"github.com/hyprlax/hyprlax/internal/herr"
	"github.com/hyprlax/hyprlax/internal/imageload"
	"github.com/hyprlax/hyprlax/internal/layer"
	"github.com/hyprlax/hyprlax/internal/mixer"
	"github.com/hyprlax/hyprlax/internal/monitor"
	"github.com/hyprlax/hyprlax/internal/platform"
	"github.com/hyprlax/hyprlax/internal/platform/glfwpreview"
	"github.com/hyprlax/hyprlax/internal/platform/wayland"
	"github.com/hyprlax/hyprlax/internal/renderer"
	"github.com/hyprlax/hyprlax/internal/workspace"
)

// Daemon owns every live subsystem of one hyprlax process.
type Daemon struct {
	cfg *config.Config

	plat     platform.Platform
	comp     compositor.Adapter
	compCaps compositor.Capability

	monitors *monitor.Registry
	layers   *layer.List

	loader  *imageload.Loader
	decoded map[string]imageload.Result

	gfx      *renderer.Renderer
	surfaces map[string]*renderer.MonitorSurface
	whiteTex *renderer.Texture

	mixers map[string]*mixer.Mixer

	ctlServer *control.Server
	loop      *eventloop.Loop

	weights mixer.Weights
	policy  workspace.Policy

	lastPointer platform.PointerEvent

	startedAt time.Time
}

// New constructs every subsystem from cfg but does not start the event
// loop; call Run to drive it.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	d := &Daemon{
		cfg:      cfg,
		monitors: monitor.NewRegistry(),
		layers:   layer.NewList(),
		decoded:  make(map[string]imageload.Result),
		surfaces: make(map[string]*renderer.MonitorSurface),
		mixers:   make(map[string]*mixer.Mixer),
		policy:   workspace.PolicyHighest,
		startedAt: time.Now(),
	}

	d.weights = resolveWeights(cfg)

	plat, err := newPlatform(cfg.PlatformName)
	if err != nil {
		return nil, herr.WithDetail(herr.ErrNoDisplay, err.Error())
	}
	if err := plat.Connect(ctx); err != nil {
		return nil, herr.WithDetail(herr.ErrNoDisplay, err.Error())
	}
	d.plat = plat

	comp, ok := compositor.Create(compositorName(cfg.CompositorName))
	if !ok {
		comp, _ = compositor.Create("generic")
	}
	if err := comp.Init(ctx, nil); err != nil {
		return nil, herr.WithDetail(herr.ErrNoCompositor, err.Error())
	}
	if err := comp.ConnectIPC(ctx); err != nil {
		logrus.WithError(err).Warn("compositor IPC connect failed, continuing with no workspace events")
	}
	d.comp = comp
	d.compCaps = compositor.EffectiveCapabilities(comp)
	logrus.WithField("compositor", comp.Name()).Info("compositor adapter ready")

	for _, spec := range cfg.Layers {
		if err := d.addLayerSpec(spec); err != nil {
			logrus.WithError(err).WithField("image", spec.Image).Warn("failed to queue configured layer")
		}
	}

	d.loader = imageload.New(0)
	d.decodeAllPending()

	for _, out := range d.plat.RealizeNow() {
		d.addMonitor(out)
	}

	if err := d.listenControl(); err != nil {
		return nil, err
	}

	loop, err := eventloop.New(d.handlers())
	if err != nil {
		return nil, err
	}
	d.loop = loop
	if err := d.loop.RegisterPlatformFD(d.plat.EventFD()); err != nil {
		return nil, err
	}
	if err := d.loop.RegisterCompositorFD(d.comp.EventFD()); err != nil {
		return nil, err
	}
	if err := d.loop.RegisterControlFD(d.ctlServer.FD()); err != nil {
		return nil, err
	}
	if err := d.loop.SetTargetFPS(cfg.TargetFPS); err != nil {
		return nil, err
	}
	if err := d.loop.SetCursorActive(d.weights.Cursor > 0); err != nil {
		return nil, err
	}

	return d, nil
}

// resolveWeights reads the three mixer weights config.Load already resolved
// (explicit *_weight fields, or the deprecated parallax_mode's fixed triple
// via mixer.ResolveLegacyWeights, per spec.md §9).
func resolveWeights(cfg *config.Config) mixer.Weights {
	return mixer.Weights{Workspace: cfg.WorkspaceWeight, Cursor: cfg.CursorWeight, Window: cfg.WindowWeight}
}

func compositorName(name string) string {
	if name == "" {
		return "auto"
	}
	return name
}

// newPlatform selects a platform.Platform by name, auto-detecting a real
// Wayland session via $WAYLAND_DISPLAY when name is empty or "auto".
func newPlatform(name string) (platform.Platform, error) {
	switch name {
	case "glfwpreview":
		return glfwpreview.New(), nil
	case "wayland":
		return wayland.New(), nil
	case "", "auto":
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			return wayland.New(), nil
		}
		return glfwpreview.New(), nil
	default:
		return nil, fmt.Errorf("daemon: unknown platform backend %q", name)
	}
}

// listenControl binds the control socket at the path derived from the
// current user and, where the compositor exposes one, its instance
// signature — letting hyprlax-ctl discover the right socket among several
// concurrent Hyprland instances per spec.md §4.7.
func (d *Daemon) listenControl() error {
	u, err := user.Current()
	username := "unknown"
	if err == nil {
		username = u.Username
	}
	instanceSig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	path := control.ServerPath(username, instanceSig, control.Suffix())

	srv, err := control.Listen(path, d)
	if err != nil {
		return err
	}
	d.ctlServer = srv
	logrus.WithField("socket", path).Info("control socket listening")
	return nil
}

// addMonitor realizes one platform.OutputInfo into a registered Monitor,
// a GPU surface, and a per-monitor Mixer.
func (d *Daemon) addMonitor(out platform.OutputInfo) {
	mon := monitor.New(out.Handle, out.Name)
	mon.Primary = out.Primary
	mon.Width, mon.Height = out.Width, out.Height
	mon.Scale = out.Scale
	mon.RefreshHz = out.RefreshHz
	mon.GlobalX, mon.GlobalY = out.GlobalX, out.GlobalY
	mon.DefaultDuration = time.Duration(d.cfg.AnimationDuration * float64(time.Second))
	mon.DefaultEasing = d.cfg.DefaultEasing

	drawable, err := d.plat.CreateSurface(out.Handle)
	if err != nil {
		logrus.WithError(err).WithField("monitor", out.Name).Error("failed to create background surface")
	} else {
		mon.Drawable = drawable
	}

	d.monitors.Add(mon)
	d.mixers[mon.Name] = mixer.New(d.weights, d.cursorSourceConfig(), d.windowSourceConfig())

	if mon.Drawable != nil {
		if err := d.ensureSurface(mon); err != nil {
			logrus.WithError(err).WithField("monitor", out.Name).Error("failed to initialize GPU surface")
		}
	}
}

func (d *Daemon) cursorSourceConfig() mixer.SourceConfig {
	return mixer.SourceConfig{
		DeadzonePx:   d.cfg.DeadzonePx,
		SensitivityX: common.Coalesce(d.cfg.SensitivityX, 1),
		SensitivityY: common.Coalesce(d.cfg.SensitivityY, 1),
		EMAAlpha:     common.Coalesce(d.cfg.EMAAlpha, 0.15),
		InvertX:      d.cfg.InvertX,
		InvertY:      d.cfg.InvertY,
		ShiftPixelsX: common.Coalesce(d.cfg.ShiftPixels, 1),
		ShiftPixelsY: common.Coalesce(d.cfg.ShiftPixels, 1),
	}
}

// windowSourceConfig shares the cursor's tuning — spec.md §4.5 processes
// the window source "analogous" to the cursor one and names no distinct
// config fields for it.
func (d *Daemon) windowSourceConfig() mixer.SourceConfig {
	return d.cursorSourceConfig()
}

// ensureSurface lazily creates the shared Renderer on the first monitor
// whose drawable can actually produce a GPU surface, then creates this
// monitor's own MonitorSurface and uploads any layers still waiting for a
// texture.
func (d *Daemon) ensureSurface(mon *monitor.Monitor) error {
	if d.gfx == nil {
		gfx, err := renderer.New(mon.Drawable, false)
		if err != nil {
			return herr.WithDetail(herr.ErrGLInit, err.Error())
		}
		d.gfx = gfx
		if err := d.createWhiteTexture(); err != nil {
			return err
		}
	}
	if _, ok := d.surfaces[mon.Name]; ok {
		return nil
	}
	ms, err := d.gfx.CreateMonitorSurface(mon.Drawable, mon.Width, mon.Height)
	if err != nil {
		return herr.WithDetail(herr.ErrGLInit, err.Error())
	}
	d.surfaces[mon.Name] = ms
	if d.cfg.Vsync {
		d.gfx.SetVsync(true)
	}
	d.uploadPendingTextures()
	return nil
}

func (d *Daemon) createWhiteTexture() error {
	tex, err := d.gfx.CreateTexture(imageload.Result{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1})
	if err != nil {
		return herr.WithDetail(herr.ErrGLInit, err.Error())
	}
	d.whiteTex = tex
	return nil
}

// Close tears down every subsystem, newest-created first.
func (d *Daemon) Close() error {
	if d.loop != nil {
		d.loop.Close()
	}
	if d.ctlServer != nil {
		d.ctlServer.Close()
	}
	if d.gfx != nil {
		// MonitorSurface exposes no public teardown of its own (spec.md §4.3
		// treats process exit as sufficient swapchain cleanup); only the
		// textures and the renderer's own fixed resources need explicit
		// release here.
		for _, l := range d.layers.Ordered() {
			d.destroyLayerTexture(l)
		}
		if d.whiteTex != nil {
			d.gfx.DestroyTexture(d.whiteTex)
		}
		d.gfx.Close()
	}
	if d.comp != nil {
		d.comp.Close()
	}
	if d.plat != nil {
		d.plat.Close()
	}
	return nil
}

// Run starts the event loop and blocks until ctx is cancelled or a
// shutdown signal arrives.
func (d *Daemon) Run(ctx context.Context) error {
	logrus.WithFields(logrus.Fields{
		"platform":   d.plat.Name(),
		"compositor": d.comp.Name(),
		"monitors":   d.monitors.Count(),
	}).Info("hyprlax started")
	return d.loop.Run(ctx)
}
