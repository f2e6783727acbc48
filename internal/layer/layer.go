// Package layer implements the image+transform descriptor (Layer) and its
// ordered collection (List), per spec.md §3 "Layer" and §4.4 "Layer list".
package layer

import (
	"time"

	"github.com/hyprlax/hyprlax/internal/animation"
)

// FitMode selects how an image is mapped onto the monitor quad.
type FitMode int

const (
	FitStretch FitMode = iota
	FitCover
	FitContain
	FitWidth
	FitHeight
)

// Overflow selects the wrap behavior outside the [0,1] UV range.
type Overflow int

const (
	OverflowRepeatEdge Overflow = iota
	OverflowRepeat
	OverflowRepeatX
	OverflowRepeatY
	OverflowNone
	OverflowInherit
)

// Tri is a tri-state boolean with an "inherit from global default" option,
// used for tile_x / tile_y per spec.md §3.
type Tri int

const (
	TriInherit Tri = iota
	TriTrue
	TriFalse
)

// Tint is a color tint applied with configurable strength.
type Tint struct {
	R, G, B  float64 // 0..1
	Strength float64 // 0..1
}

// Layer is one image+transform descriptor in a monitor's compositing stack.
type Layer struct {
	ID int32

	// ImagePath is the immutable texture-identity key. Replacing an image is
	// modeled as remove+add with the same ID, per spec.md §3 invariants.
	ImagePath string

	// TextureHandle is opaque GPU texture identity, assigned lazily after GPU
	// init; nil (no texture) until then or if loading failed.
	TextureHandle  any
	TextureWidth   int
	TextureHeight  int

	ShiftMultiplier float64 // 0..~5
	Opacity         float64 // clamped to [0,1]
	BlurAmount      float64 // >= 0
	Tint            Tint

	FitMode      FitMode
	ContentScale float64 // > 0
	AlignX       float64 // 0..1
	AlignY       float64 // 0..1
	Overflow     Overflow
	TileX        Tri
	TileY        Tri
	MarginPxX    float64
	MarginPxY    float64

	Z int

	Anim *animation.Axis2D

	Hidden bool

	insertSeq uint64 // tiebreaker for stable z-sort, assigned by List.Add
}

// clampUnit clamps v to [0,1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// New constructs a Layer with spec-default property values. id must be
// assigned by the owning List (monotonic, never reused).
func New(id int32, imagePath string) *Layer {
	return &Layer{
		ID:              id,
		ImagePath:       imagePath,
		ShiftMultiplier: 1,
		Opacity:         1,
		ContentScale:    1,
		AlignX:          0.5,
		AlignY:          0.5,
		FitMode:         FitCover,
		Overflow:        OverflowInherit,
		TileX:           TriInherit,
		TileY:           TriInherit,
		Anim:            animation.NewAxis2D(),
	}
}

// SetOpacity clamps to [0,1] at write, per spec.md §3 invariants.
func (l *Layer) SetOpacity(v float64) { l.Opacity = clampUnit(v) }

// SetBlur clamps to >= 0 at write.
func (l *Layer) SetBlur(v float64) {
	if v < 0 {
		v = 0
	}
	l.BlurAmount = v
}

// SetTintStrength clamps to [0,1] at write.
func (l *Layer) SetTintStrength(v float64) { l.Tint.Strength = clampUnit(v) }

// HasTexture reports whether the layer currently has a live GPU texture.
// A layer with no texture (load failed, or not yet uploaded) is skipped by
// the render loop rather than aborting it (spec.md §7).
func (l *Layer) HasTexture() bool { return l.TextureHandle != nil }

// effectiveTile resolves a Tri against a global default for the none-overflow
// discard rule and wrap-mode selection in the renderer contract.
func effectiveTile(t Tri, globalDefault bool) bool {
	switch t {
	case TriTrue:
		return true
	case TriFalse:
		return false
	default:
		return globalDefault
	}
}

// EffectiveTileX resolves TileX against the render-default tile setting.
func (l *Layer) EffectiveTileX(globalDefault bool) bool { return effectiveTile(l.TileX, globalDefault) }

// EffectiveTileY resolves TileY against the render-default tile setting.
func (l *Layer) EffectiveTileY(globalDefault bool) bool { return effectiveTile(l.TileY, globalDefault) }

// EffectiveOverflow resolves OverflowInherit against a global default.
func (l *Layer) EffectiveOverflow(globalDefault Overflow) Overflow {
	if l.Overflow == OverflowInherit {
		return globalDefault
	}
	return l.Overflow
}

// now is overridable in tests.
var now = time.Now
