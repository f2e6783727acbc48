package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/hyprlax/hyprlax/internal/imageload"
)

// Texture is the GPU-side counterpart of imageload.Result. It owns one
// persistent uniform buffer (rewritten every draw via queue.WriteBuffer)
// and caches one bind group per wrap-mode combination it has actually been
// drawn with, so steady-state frames do no GPU object allocation at all —
// only BindGroupEntry reuse plus a WriteBuffer call per layer per frame.
type Texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	Width   int
	Height  int

	uniform    *wgpu.Buffer
	bindGroups map[samplerKey]*wgpu.BindGroup
}

// samplerKey indexes the renderer's shared sampler cache by wrap mode
// combination; at most 4 combinations exist (clamp/repeat on each axis), so
// every layer reuses one of 4 samplers rather than allocating its own.
type samplerKey struct {
	wrapX, wrapY WrapMode
}

func (w WrapMode) wgpu() wgpu.AddressMode {
	if w == WrapRepeat {
		return wgpu.AddressModeRepeat
	}
	return wgpu.AddressModeClampToEdge
}

// CreateTexture uploads a decoded image as a GPU texture, grounded on
// wgpuRendererBackendImpl.InitTextureView's create-texture-then-WriteTexture
// sequence. The staging RGBA bytes are not retained after upload.
func (r *Renderer) CreateTexture(img imageload.Result) (*Texture, error) {
	if img.Err != nil {
		return nil, img.Err
	}
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("renderer: CreateTexture: invalid image dimensions %dx%d", img.Width, img.Height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     img.Path + " texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(img.Width),
			Height:             uint32(img.Height),
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, MipLevel: 0, Aspect: wgpu.TextureAspectAll},
		img.Pixels,
		&wgpu.TextureDataLayout{BytesPerRow: uint32(img.Width) * 4, RowsPerImage: uint32(img.Height)},
		&wgpu.Extent3D{Width: uint32(img.Width), Height: uint32(img.Height), DepthOrArrayLayers: 1},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	uniform, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: img.Path + " draw params",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return &Texture{
		texture: tex, view: view, Width: img.Width, Height: img.Height,
		uniform:    uniform,
		bindGroups: make(map[samplerKey]*wgpu.BindGroup),
	}, nil
}

// DestroyTexture releases the GPU texture, its view, its uniform buffer and
// any cached bind groups. Safe to call with a nil Texture (a layer that
// never finished loading).
func (r *Renderer) DestroyTexture(t *Texture) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bg := range t.bindGroups {
		bg.Release()
	}
	if t.uniform != nil {
		t.uniform.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// bindGroupFor returns the cached bind group for this texture at the given
// wrap-mode pair, creating it (and the underlying shared sampler) on first
// use. Caller must hold r.mu.
func (r *Renderer) bindGroupFor(t *Texture, wrapX, wrapY WrapMode) (*wgpu.BindGroup, error) {
	key := samplerKey{wrapX, wrapY}
	if bg, ok := t.bindGroups[key]; ok {
		return bg, nil
	}
	sampler, err := r.samplerForLocked(wrapX, wrapY)
	if err != nil {
		return nil, err
	}
	bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "hyprlax layer bind group",
		Layout: r.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: t.uniform, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: t.view},
			{Binding: 2, Sampler: sampler},
		},
	})
	if err != nil {
		return nil, err
	}
	t.bindGroups[key] = bg
	return bg, nil
}

// samplerForLocked returns the shared sampler for a wrap-mode pair,
// creating and caching it on first use. Matches InitSampler's filter/mipmap
// defaults (linear filtering, no anisotropy, no mip chain beyond level 0).
// Caller must hold r.mu.
func (r *Renderer) samplerForLocked(wrapX, wrapY WrapMode) (*wgpu.Sampler, error) {
	key := samplerKey{wrapX, wrapY}
	if s, ok := r.samplers[key]; ok {
		return s, nil
	}
	s, err := r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "hyprlax layer sampler",
		AddressModeU: wrapX.wgpu(),
		AddressModeV: wrapY.wgpu(),
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
		LodMaxClamp:  32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	r.samplers[key] = s
	return s, nil
}
