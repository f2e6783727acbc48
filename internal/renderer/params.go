// Package renderer owns the GPU context: texture upload and a single
// textured-quad draw with fit/overflow/tint/blur, per spec.md §4.3.
//
// The fit/overflow/tint arithmetic in this file is pure and GPU-free so it
// can be unit tested directly; the wgpu code in renderer.go feeds its
// results, packed by NewDrawParams in uniform.go, into a per-draw uniform
// buffer consumed by quadShaderSource.
package renderer

import "github.com/hyprlax/hyprlax/internal/layer"

// FitResult is the resolved NDC quad scale and UV sample window for one
// layer's draw call, computed once per frame from its FitMode, content
// scale and alignment against the current monitor size and texture size.
type FitResult struct {
	ScaleX, ScaleY float64 // NDC half-extent multiplier; 1.0 = full screen on that axis
	UVMinX, UVMinY float64
	UVMaxX, UVMaxY float64
}

// fullScreenUV is the identity fit: the quad covers the full NDC extent and
// samples the whole texture.
func fullScreenUV() FitResult {
	return FitResult{ScaleX: 1, ScaleY: 1, UVMaxX: 1, UVMaxY: 1}
}

// ComputeFit implements spec.md §4.3's fit arithmetic contract. screenW/H
// and texW/H are in pixels; contentScale > 0; alignX/Y in [0,1].
func ComputeFit(mode layer.FitMode, screenW, screenH, texW, texH, contentScale, alignX, alignY float64) FitResult {
	if texW <= 0 || texH <= 0 || screenW <= 0 || screenH <= 0 {
		return fullScreenUV()
	}
	if contentScale <= 0 {
		contentScale = 1
	}

	sx := screenW / texW
	sy := screenH / texH

	switch mode {
	case layer.FitStretch:
		return fullScreenUV()

	case layer.FitContain:
		s := minF(sx, sy) * contentScale
		return FitResult{
			ScaleX: (s * texW) / screenW,
			ScaleY: (s * texH) / screenH,
			UVMaxX: 1, UVMaxY: 1,
		}

	case layer.FitWidth:
		return coverLikeWindow(sx*contentScale, screenW, screenH, texW, texH, alignX, alignY)

	case layer.FitHeight:
		return coverLikeWindow(sy*contentScale, screenW, screenH, texW, texH, alignX, alignY)

	case layer.FitCover:
		fallthrough
	default:
		return coverLikeWindow(maxF(sx, sy)*contentScale, screenW, screenH, texW, texH, alignX, alignY)
	}
}

// coverLikeWindow builds the UV sample window for COVER/FIT_WIDTH/FIT_HEIGHT:
// the quad covers the full screen (ScaleX=ScaleY=1) and a `(W/(s·tw),
// H/(s·th))`-sized UV window is placed within the texture by align.
func coverLikeWindow(s, screenW, screenH, texW, texH, alignX, alignY float64) FitResult {
	if s <= 0 {
		return fullScreenUV()
	}
	uvW := screenW / (s * texW)
	uvH := screenH / (s * texH)
	minX := alignX * (1 - uvW)
	minY := alignY * (1 - uvH)
	return FitResult{
		ScaleX: 1, ScaleY: 1,
		UVMinX: minX, UVMinY: minY,
		UVMaxX: minX + uvW, UVMaxY: minY + uvH,
	}
}

// OffsetScale returns the factor parallax offsets are multiplied by when
// applied through the vertex uniform, compensating for CONTAIN's NDC
// shrink so a layer's apparent shift speed doesn't change with its content
// scale (spec.md §4.3 "Parallax translation").
func OffsetScale(contentScale float64) float64 {
	if contentScale <= 0 {
		return 1
	}
	return 1 / contentScale
}

// WrapMode selects the texture address mode for one axis.
type WrapMode int

const (
	WrapClampToEdge WrapMode = iota
	WrapRepeat
)

// ResolveWrap maps a layer's effective tile_{x,y} boolean onto a wrap mode,
// per spec.md §4.3 "Texture wrap is REPEAT when tile_{x,y} resolves true,
// CLAMP_TO_EDGE otherwise."
func ResolveWrap(tile bool) WrapMode {
	if tile {
		return WrapRepeat
	}
	return WrapClampToEdge
}

// DiscardOutsideUnit reports whether the fragment stage must discard
// samples outside [0,1] on an axis: overflow=none on a non-tiled axis,
// per spec.md §4.3 "Overflow & tiling".
func DiscardOutsideUnit(overflow layer.Overflow, tile bool) bool {
	return overflow == layer.OverflowNone && !tile
}

// ApplyTint computes rgb_out = rgb_sample · lerp(1, tint, tint_strength),
// per spec.md §4.3 "Tint". Exercised directly by tests; the wgpu fragment
// shader performs the identical computation per-pixel on the GPU.
func ApplyTint(sample, tint [3]float64, strength float64) [3]float64 {
	strength = clampUnit(strength)
	var out [3]float64
	for i := range sample {
		lerp := 1 + (tint[i]-1)*strength
		out[i] = sample[i] * lerp
	}
	return out
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
