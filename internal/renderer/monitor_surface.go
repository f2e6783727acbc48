package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// MonitorSurface is one monitor's live GPU swapchain, grounded on
// wgpuRendererBackendImpl's surface/format/frame-state fields — trimmed to
// drop the MSAA and depth-attachment bookkeeping a 2D compositing pass
// covering the whole screen with premultiplied-alpha draw order has no use
// for (see DESIGN.md).
type MonitorSurface struct {
	surface *wgpu.Surface
	format  wgpu.TextureFormat
	width   int
	height  int

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView

	// blurPing backs the separable two-pass blur mode: the horizontal pass
	// renders into blurPing, the vertical pass samples it and draws
	// directly into the swapchain view, so only one offscreen target is
	// ever needed. Allocated lazily at first blurred draw and resized
	// alongside the surface.
	blurPing     *wgpu.Texture
	blurPingView *wgpu.TextureView
}

// CreateMonitorSurface resolves a platform drawable (a window.Window from
// glfwpreview, or a wayland.Surface) into a configured wgpu swapchain,
// per spec.md §4.3 "Per-monitor surfaces".
func (r *Renderer) CreateMonitorSurface(drawable any, width, height int) (*MonitorSurface, error) {
	desc, err := surfaceDescriptorFrom(drawable)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	surface := r.instance.CreateSurface(desc)
	capabilities := surface.GetCapabilities(r.adapter)
	if len(capabilities.Formats) == 0 {
		surface.Release()
		return nil, fmt.Errorf("renderer: CreateMonitorSurface: adapter reported no supported surface formats")
	}
	ms := &MonitorSurface{surface: surface, format: capabilities.Formats[0]}
	if err := r.configureSurfaceLocked(ms, width, height); err != nil {
		surface.Release()
		return nil, err
	}
	return ms, nil
}

// configureSurfaceLocked applies (or reapplies, on resize) the swapchain
// configuration. Caller must hold r.mu.
func (r *Renderer) configureSurfaceLocked(ms *MonitorSurface, width, height int) error {
	capabilities := ms.surface.GetCapabilities(r.adapter)
	ms.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      ms.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode.wgpu(),
		AlphaMode:   capabilities.AlphaModes[0],
	})
	ms.width, ms.height = width, height
	ms.releaseBlurTargets()
	return nil
}

// Resize reconfigures a monitor surface for a new pixel size, per spec.md
// §4.3's Resize operation.
func (r *Renderer) Resize(ms *MonitorSurface, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configureSurfaceLocked(ms, width, height)
}

// SetVsync toggles present mode; callers must Resize an affected surface
// afterward for the change to take effect, matching the teacher's
// SetPresentMode contract.
func (r *Renderer) SetVsync(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if enabled {
		r.presentMode = PresentModeVSync
	} else {
		r.presentMode = PresentModeUncapped
	}
}

func (ms *MonitorSurface) releaseBlurTargets() {
	if ms.blurPingView != nil {
		ms.blurPingView.Release()
		ms.blurPingView = nil
	}
	if ms.blurPing != nil {
		ms.blurPing.Release()
		ms.blurPing = nil
	}
}

// ensureBlurTargets lazily allocates the offscreen target used by the
// separable two-pass blur mode's horizontal pass, sized to the surface's
// current dimensions. Caller must hold r.mu.
func (r *Renderer) ensureBlurTargets(ms *MonitorSurface) error {
	if ms.blurPing != nil {
		return nil
	}
	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "hyprlax blur ping",
		Usage: wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		Size: wgpu.Extent3D{
			Width: uint32(ms.width), Height: uint32(ms.height), DepthOrArrayLayers: 1,
		},
		Dimension:     wgpu.TextureDimension2D,
		Format:        ms.format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	ms.blurPing, ms.blurPingView = tex, view
	return nil
}
