package renderer

import "testing"

func TestDrawParamsMarshalLength(t *testing.T) {
	p := NewDrawParams(fullScreenUV(), 0.1, -0.2, 0.8, 2.0, [3]float64{1, 0, 0}, 0.5, true, false)
	buf := p.Marshal()
	if len(buf) != p.Size() || len(buf) != 64 {
		t.Fatalf("expected a 64-byte uniform buffer, got %d bytes", len(buf))
	}
}

func TestNewDrawParamsClampsOpacityAndTintStrength(t *testing.T) {
	p := NewDrawParams(fullScreenUV(), 0, 0, 1.5, 0, [3]float64{0, 1, 0}, 2.0, false, false)
	if p.Opacity != 1 {
		t.Fatalf("expected opacity to clamp to 1, got %v", p.Opacity)
	}
	if p.TintStrength != 1 {
		t.Fatalf("expected tint strength to clamp to 1, got %v", p.TintStrength)
	}
}

func TestNewDrawParamsDiscardFlags(t *testing.T) {
	p := NewDrawParams(fullScreenUV(), 0, 0, 1, 0, [3]float64{}, 0, true, false)
	if p.DiscardX != 1 || p.DiscardY != 0 {
		t.Fatalf("expected discard flags (1,0), got (%v,%v)", p.DiscardX, p.DiscardY)
	}
}
