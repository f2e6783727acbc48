package easing

import "testing"

func TestCatalogBoundaries(t *testing.T) {
	for name, f := range catalog {
		if got := f(0); abs(got) > 1e-9 {
			t.Errorf("%s: f(0) = %v, want 0", name, got)
		}
		if got := f(1); abs(got-1) > 1e-9 {
			t.Errorf("%s: f(1) = %v, want 1", name, got)
		}
	}
}

func TestLookupFallsBackToLinear(t *testing.T) {
	f := Lookup(Name("not-a-real-curve"))
	for _, tv := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if got := f(tv); got != tv {
			t.Errorf("fallback curve at t=%v = %v, want %v (linear)", tv, got, tv)
		}
	}
}

func TestQuadInOutMonotonic(t *testing.T) {
	f := Lookup(QuadInOut)
	prev := f(0)
	for i := 1; i <= 10; i++ {
		v := f(float64(i) / 10)
		if v < prev {
			t.Fatalf("quad-in-out not monotonic at step %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
