package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// quadShaderSource is the single-pass textured quad shader: vertex NDC
// transform, UV windowing, overflow discard, in-shader Gaussian blur, tint
// and premultiplied-alpha output. Matches DrawParams' layout exactly.
//
//go:embed assets/quad.wgsl
var quadShaderSource string

// blurHShaderSource is the first (horizontal) pass of the separable
// two-pass blur mode; it places the quad via u_offset/scale.
//
//go:embed assets/blur_h.wgsl
var blurHShaderSource string

// blurVShaderSource is the second (vertical) pass; it samples the
// horizontal pass's offscreen output at identity placement.
//
//go:embed assets/blur_v.wgsl
var blurVShaderSource string

// DrawParams is the per-layer uniform fed to the quad shader, built from a
// FitResult plus the layer's opacity/blur/tint and overflow discard flags.
// Size: 64 bytes, matching the field order of the WGSL DrawParams struct in
// assets/quad.wgsl exactly.
type DrawParams struct {
	OffsetX, OffsetY float32
	ScaleX, ScaleY   float32
	UVMinX, UVMinY   float32
	UVMaxX, UVMaxY   float32
	TintR, TintG, TintB, TintStrength float32
	Opacity    float32
	BlurAmount float32
	DiscardX, DiscardY float32
}

// Size returns the byte size of DrawParams for GPU upload.
func (p *DrawParams) Size() int { return 64 }

// Marshal serializes DrawParams into a little-endian byte buffer suitable
// for a uniform buffer write, following material.GPUEffectParams.Marshal's
// binary.LittleEndian + math.Float32bits pattern.
func (p *DrawParams) Marshal() []byte {
	buf := make([]byte, 64)
	fields := []float32{
		p.OffsetX, p.OffsetY,
		p.ScaleX, p.ScaleY,
		p.UVMinX, p.UVMinY,
		p.UVMaxX, p.UVMaxY,
		p.TintR, p.TintG, p.TintB, p.TintStrength,
		p.Opacity, p.BlurAmount,
		p.DiscardX, p.DiscardY,
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	return buf
}

// NewDrawParams builds the uniform for one layer's draw, folding a
// ComputeFit result, the parallax offset (already NDC and content-scale
// compensated by the caller via OffsetScale), and the layer's
// opacity/blur/tint/overflow state into one upload.
func NewDrawParams(fit FitResult, offsetXNDC, offsetYNDC, opacity, blur float64, tint [3]float64, tintStrength float64, discardX, discardY bool) DrawParams {
	f32 := func(v float64) float32 { return float32(v) }
	b32 := func(b bool) float32 {
		if b {
			return 1
		}
		return 0
	}
	return DrawParams{
		OffsetX: f32(offsetXNDC), OffsetY: f32(offsetYNDC),
		ScaleX: f32(fit.ScaleX), ScaleY: f32(fit.ScaleY),
		UVMinX: f32(fit.UVMinX), UVMinY: f32(fit.UVMinY),
		UVMaxX: f32(fit.UVMaxX), UVMaxY: f32(fit.UVMaxY),
		TintR: f32(tint[0]), TintG: f32(tint[1]), TintB: f32(tint[2]), TintStrength: f32(clampUnit(tintStrength)),
		Opacity:    f32(clampUnit(opacity)),
		BlurAmount: f32(blur),
		DiscardX:   b32(discardX), DiscardY: b32(discardY),
	}
}
