package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/hyprlax/hyprlax/common"
)

// quadVertex is {position.xy, uv.xy}: a unit NDC quad ([-1,1]) paired with
// [0,1] texture coordinates, matching quad.wgsl's vertex layout.
type quadVertex struct {
	x, y, u, v float32
}

var quadVertices = []quadVertex{
	{-1, -1, 0, 1},
	{1, -1, 1, 1},
	{1, 1, 1, 0},
	{-1, 1, 0, 0},
}

var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

// Renderer owns the GPU device and the fixed set of pipelines hyprlax ever
// needs: one textured quad, and a horizontal/vertical pair for the
// separable blur mode. Grounded on wgpuRendererBackendImpl's
// instance/adapter/device/queue fields and frame lifecycle, trimmed of the
// generic multi-pipeline cache and bind-group-provider/shader reflection
// layers a 3D scene engine needs but a single fixed quad draw does not
// (see DESIGN.md).
type Renderer struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout

	quadPipeline  map[wgpu.TextureFormat]*wgpu.RenderPipeline
	blurHPipeline map[wgpu.TextureFormat]*wgpu.RenderPipeline
	blurVPipeline map[wgpu.TextureFormat]*wgpu.RenderPipeline

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer

	samplers map[samplerKey]*wgpu.Sampler

	presentMode PresentMode
}

// errUnsupportedDrawable reports a platform drawable that cannot be
// resolved to a wgpu surface descriptor.
func errUnsupportedDrawable(drawable any) error {
	return fmt.Errorf("renderer: CreateMonitorSurface: drawable of type %T cannot produce a GPU surface", drawable)
}

// New creates the wgpu instance and requests an adapter/device compatible
// with the given drawable's surface, per spec.md §4.3's Init operation.
// forceFallbackAdapter mirrors the teacher's software-adapter escape hatch
// for headless/CI environments without a real GPU.
func New(initialDrawable any, forceFallbackAdapter bool) (*Renderer, error) {
	runtime.LockOSThread()

	desc, err := surfaceDescriptorFrom(initialDrawable)
	if err != nil {
		return nil, err
	}

	instance := wgpu.CreateInstance(nil)
	probeSurface := instance.CreateSurface(desc)
	defer probeSurface.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    probeSurface,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: RequestAdapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "hyprlax device"})
	if err != nil {
		return nil, fmt.Errorf("renderer: RequestDevice: %w", err)
	}

	r := &Renderer{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),

		quadPipeline:  make(map[wgpu.TextureFormat]*wgpu.RenderPipeline),
		blurHPipeline: make(map[wgpu.TextureFormat]*wgpu.RenderPipeline),
		blurVPipeline: make(map[wgpu.TextureFormat]*wgpu.RenderPipeline),
		samplers:      make(map[samplerKey]*wgpu.Sampler),
		presentMode:   PresentModeVSync,
	}

	if err := r.initFixedResources(); err != nil {
		return nil, err
	}
	return r, nil
}

// initFixedResources creates the one bind group layout, pipeline layout and
// unit quad mesh every draw reuses. Grounded on RegisterRenderPipeline's
// bind-group-layout and pipeline-layout creation, hand-written here instead
// of derived from WGSL reflection since the binding shape (uniform, texture,
// sampler) never varies.
func (r *Renderer) initFixedResources() error {
	layout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "hyprlax quad bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 64,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return err
	}
	r.bindGroupLayout = layout

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "hyprlax quad pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return err
	}
	r.pipelineLayout = pipelineLayout

	vertexBytes := common.SliceToBytes(quadVertices)
	vb, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "hyprlax quad vertices",
		Size:  uint64(len(vertexBytes)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	r.queue.WriteBuffer(vb, 0, vertexBytes)
	r.vertexBuffer = vb

	indexBytes := common.SliceToBytes(quadIndices)
	ib, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "hyprlax quad indices",
		Size:  uint64(len(indexBytes)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	r.queue.WriteBuffer(ib, 0, indexBytes)
	r.indexBuffer = ib

	return nil
}

// pipelineFor lazily registers (and caches, per surface format) the
// three fixed render pipelines, grounded on RegisterRenderPipeline's
// shader-module + pipeline-layout + blend-state wiring. Every pipeline
// shares the premultiplied-alpha blend state spec.md §4.3 requires
// throughout.
func (r *Renderer) pipelineFor(cache map[wgpu.TextureFormat]*wgpu.RenderPipeline, format wgpu.TextureFormat, source, label string) (*wgpu.RenderPipeline, error) {
	if p, ok := cache[format]; ok {
		return p, nil
	}

	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: r.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 16,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return nil, err
	}
	cache[format] = pipeline
	return pipeline, nil
}

// MakeCurrent is a no-op placeholder on wgpu-native: unlike GL contexts,
// wgpu resources are not bound to a calling thread's "current context", so
// selecting a monitor surface is simply passing it to the draw calls below.
// Kept as a method to satisfy spec.md §4.3's named operation.
func (r *Renderer) MakeCurrent(ms *MonitorSurface) error {
	if ms == nil {
		return fmt.Errorf("renderer: MakeCurrent: nil surface")
	}
	return nil
}

// BeginFrame acquires the next swapchain texture and opens a command
// encoder, grounded on wgpuRendererBackendImpl.BeginFrame.
func (r *Renderer) BeginFrame(ms *MonitorSurface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ms.frameTexture != nil {
		return fmt.Errorf("renderer: BeginFrame: previous frame not yet presented")
	}

	surfaceTexture, err := ms.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})

	ms.frameEncoder = encoder
	ms.framePass = pass
	ms.frameTexture = surfaceTexture
	ms.frameView = view
	return nil
}

// Clear fills the whole surface with a flat color, overwriting the
// render pass's default LoadOpLoad with a LoadOpClear for this frame only —
// used for the startup/teardown black frame and as FadeFrame's base.
func (r *Renderer) Clear(ms *MonitorSurface, rgba [4]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ms.framePass == nil {
		return fmt.Errorf("renderer: Clear: BeginFrame not called")
	}
	ms.framePass.End()

	pass := ms.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       ms.frameView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]},
			},
		},
	})
	ms.framePass = pass
	return nil
}

// FadeFrame draws a full-screen solid quad over the scene at the given
// opacity, per spec.md §4.3's crossfade/startup-fade support. It reuses the
// quad pipeline with a 1x1 white dummy texture tinted to the fade color.
func (r *Renderer) FadeFrame(ms *MonitorSurface, white *Texture, rgb [3]float64, opacity float64) error {
	params := NewDrawParams(fullScreenUV(), 0, 0, opacity, 0, rgb, 1, false, false)
	return r.DrawLayerEx(ms, white, params, WrapClampToEdge, WrapClampToEdge, false)
}

// DrawLayerEx encodes one textured quad draw within the current render
// pass, per spec.md §4.3's draw_layer_ex. When separableBlur is true and
// params.BlurAmount > 0, the draw is split into the two-pass horizontal/
// vertical blur grounded on the teacher's multi-pass shadow rendering
// pattern of encoding more than one pass within a single frame's command
// encoder.
func (r *Renderer) DrawLayerEx(ms *MonitorSurface, tex *Texture, params DrawParams, wrapX, wrapY WrapMode, separableBlur bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ms.framePass == nil {
		return fmt.Errorf("renderer: DrawLayerEx: BeginFrame not called")
	}
	if tex == nil {
		return fmt.Errorf("renderer: DrawLayerEx: nil texture")
	}

	bindGroup, err := r.bindGroupFor(tex, wrapX, wrapY)
	if err != nil {
		return err
	}

	if separableBlur && params.BlurAmount > 0 {
		return r.drawSeparableBlurLocked(ms, tex, bindGroup, params)
	}

	r.queue.WriteBuffer(tex.uniform, 0, params.Marshal())

	pipeline, err := r.pipelineFor(r.quadPipeline, ms.format, quadShaderSource, "hyprlax quad pipeline")
	if err != nil {
		return err
	}

	ms.framePass.SetPipeline(pipeline)
	ms.framePass.SetBindGroup(0, bindGroup, nil)
	ms.framePass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
	ms.framePass.SetIndexBuffer(r.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	ms.framePass.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
	return nil
}

// drawSeparableBlurLocked runs the horizontal pass into an offscreen
// target, then the vertical pass reading that target into the current
// swapchain render pass. Caller must hold r.mu and have validated tex/bindGroup.
func (r *Renderer) drawSeparableBlurLocked(ms *MonitorSurface, tex *Texture, bindGroup *wgpu.BindGroup, params DrawParams) error {
	if err := r.ensureBlurTargets(ms); err != nil {
		return err
	}

	hPipeline, err := r.pipelineFor(r.blurHPipeline, ms.format, blurHShaderSource, "hyprlax blur-h pipeline")
	if err != nil {
		return err
	}
	vPipeline, err := r.pipelineFor(r.blurVPipeline, ms.format, blurVShaderSource, "hyprlax blur-v pipeline")
	if err != nil {
		return err
	}

	r.queue.WriteBuffer(tex.uniform, 0, params.Marshal())

	// Horizontal pass: samples the layer texture, places the quad via
	// u_offset/scale, writes into blurPing. This pass does not share the
	// swapchain's render pass, so it opens and ends its own.
	hPass := ms.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{View: ms.blurPingView, LoadOp: wgpu.LoadOpClear, StoreOp: wgpu.StoreOpStore},
		},
	})
	hPass.SetPipeline(hPipeline)
	hPass.SetBindGroup(0, bindGroup, nil)
	hPass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
	hPass.SetIndexBuffer(r.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	hPass.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
	hPass.End()

	// Vertical pass needs a bind group pointing at blurPing rather than the
	// source texture; build one on demand keyed by the surface (not the
	// texture), since it never needs the layer's own wrap mode — the
	// offscreen ping target is always sampled with clamp-to-edge to avoid
	// bleeding the blur kernel across the opposite screen edge.
	pongBindGroup, err := r.pingBindGroupLocked(ms, tex.uniform)
	if err != nil {
		return err
	}

	ms.framePass.SetPipeline(vPipeline)
	ms.framePass.SetBindGroup(0, pongBindGroup, nil)
	ms.framePass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
	ms.framePass.SetIndexBuffer(r.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	ms.framePass.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
	return nil
}

// pingBindGroupLocked builds (once per surface) the bind group the vertical
// blur pass samples from: the same uniform buffer as the horizontal pass
// (so tint/opacity apply once, on the second pass), blurPingView, and a
// clamp-to-edge sampler.
func (r *Renderer) pingBindGroupLocked(ms *MonitorSurface, uniform *wgpu.Buffer) (*wgpu.BindGroup, error) {
	sampler, err := r.samplerForLocked(WrapClampToEdge, WrapClampToEdge)
	if err != nil {
		return nil, err
	}
	return r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "hyprlax blur-v bind group",
		Layout: r.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniform, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: ms.blurPingView},
			{Binding: 2, Sampler: sampler},
		},
	})
}

// EndFrame ends the render pass and submits the command buffer, grounded
// on wgpuRendererBackendImpl.EndFrame.
func (r *Renderer) EndFrame(ms *MonitorSurface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ms.framePass == nil {
		return fmt.Errorf("renderer: EndFrame: BeginFrame not called")
	}
	ms.framePass.End()

	cmd, err := ms.frameEncoder.Finish(nil)
	ms.frameEncoder.Release()
	ms.frameEncoder = nil
	ms.framePass = nil
	if err != nil {
		ms.frameView.Release()
		ms.frameTexture.Release()
		ms.frameView = nil
		ms.frameTexture = nil
		return err
	}

	r.queue.Submit(cmd)
	cmd.Release()
	return nil
}

// Present presents the acquired swapchain image, grounded on
// wgpuRendererBackendImpl.Present.
func (r *Renderer) Present(ms *MonitorSurface) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ms.frameTexture == nil {
		return
	}
	ms.surface.Present()
	ms.frameView.Release()
	ms.frameTexture.Release()
	ms.frameView = nil
	ms.frameTexture = nil
}

// Close releases every GPU resource the renderer owns. Monitor surfaces and
// textures must be destroyed by their owners before calling Close.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.samplers {
		s.Release()
	}
	for _, p := range r.quadPipeline {
		p.Release()
	}
	for _, p := range r.blurHPipeline {
		p.Release()
	}
	for _, p := range r.blurVPipeline {
		p.Release()
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
	}
	if r.pipelineLayout != nil {
		r.pipelineLayout.Release()
	}
	if r.bindGroupLayout != nil {
		r.bindGroupLayout.Release()
	}
	if r.device != nil {
		r.device.Release()
	}
	if r.adapter != nil {
		r.adapter.Release()
	}
	if r.instance != nil {
		r.instance.Release()
	}
}
