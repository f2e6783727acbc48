package mixer

import "testing"

func TestMixWorkspaceOnly(t *testing.T) {
	m := New(Weights{Workspace: 1}, DefaultSourceConfig(), DefaultSourceConfig())
	dx, dy := m.Mix(Input{WorkspaceX: 100, WorkspaceY: -50})
	if dx != 100 || dy != -50 {
		t.Fatalf("expected (100,-50) passthrough, got (%v,%v)", dx, dy)
	}
}

func TestMixCursorIgnoredWhenWeightZero(t *testing.T) {
	m := New(Weights{Workspace: 1, Cursor: 0}, DefaultSourceConfig(), DefaultSourceConfig())
	dx, dy := m.Mix(Input{
		WorkspaceX: 0, WorkspaceY: 0,
		CursorGlobalX: 1000, CursorGlobalY: 1000, CursorOK: true,
		MonitorGeometry: Geometry{Width: 1920, Height: 1080},
	})
	if dx != 0 || dy != 0 {
		t.Fatalf("cursor weight 0 should contribute nothing, got (%v,%v)", dx, dy)
	}
}

func TestMixCursorIgnoredWhenNotOK(t *testing.T) {
	cfg := DefaultSourceConfig()
	cfg.ShiftPixelsX, cfg.ShiftPixelsY = 100, 100
	m := New(Weights{Cursor: 1}, cfg, DefaultSourceConfig())
	dx, dy := m.Mix(Input{CursorOK: false, MonitorGeometry: Geometry{Width: 1920, Height: 1080}})
	if dx != 0 || dy != 0 {
		t.Fatalf("no cursor sample available should contribute nothing, got (%v,%v)", dx, dy)
	}
}

func TestMixCursorCenterYieldsZeroOffset(t *testing.T) {
	cfg := DefaultSourceConfig()
	cfg.ShiftPixelsX, cfg.ShiftPixelsY = 200, 200
	m := New(Weights{Cursor: 1}, cfg, DefaultSourceConfig())
	geom := Geometry{OriginX: 0, OriginY: 0, Width: 1920, Height: 1080}
	dx, dy := m.Mix(Input{CursorGlobalX: 960, CursorGlobalY: 540, CursorOK: true, MonitorGeometry: geom})
	if dx != 0 || dy != 0 {
		t.Fatalf("cursor exactly at monitor center should normalize to 0, got (%v,%v)", dx, dy)
	}
}

func TestMixCursorAtEdgeApproachesFullShift(t *testing.T) {
	cfg := DefaultSourceConfig()
	cfg.ShiftPixelsX = 100
	cfg.EMAAlpha = 1 // disable smoothing lag for this assertion
	m := New(Weights{Cursor: 1}, cfg, DefaultSourceConfig())
	geom := Geometry{OriginX: 0, OriginY: 0, Width: 1920, Height: 1080}
	dx, _ := m.Mix(Input{CursorGlobalX: 1920, CursorGlobalY: 540, CursorOK: true, MonitorGeometry: geom})
	if dx != 100 {
		t.Fatalf("cursor at the right edge should normalize to +1 and yield full shift_pixels, got %v", dx)
	}
}

func TestMixInvertXFlipsSign(t *testing.T) {
	cfg := DefaultSourceConfig()
	cfg.ShiftPixelsX = 100
	cfg.EMAAlpha = 1
	cfg.InvertX = true
	m := New(Weights{Cursor: 1}, cfg, DefaultSourceConfig())
	geom := Geometry{Width: 1920, Height: 1080}
	dx, _ := m.Mix(Input{CursorGlobalX: 1920, CursorGlobalY: 540, CursorOK: true, MonitorGeometry: geom})
	if dx != -100 {
		t.Fatalf("InvertX should flip the sign, got %v", dx)
	}
}

func TestMixClampsToMaxOffset(t *testing.T) {
	m := New(Weights{Workspace: 1}, DefaultSourceConfig(), DefaultSourceConfig())
	m.MaxOffsetX = 50
	m.MaxOffsetY = 50
	dx, dy := m.Mix(Input{WorkspaceX: 500, WorkspaceY: -500})
	if dx != 50 || dy != -50 {
		t.Fatalf("expected clamp to ±50, got (%v,%v)", dx, dy)
	}
}

func TestSourceDeadzoneHoldsLastSample(t *testing.T) {
	cfg := SourceConfig{DeadzonePx: 10, SensitivityX: 1, SensitivityY: 1, EMAAlpha: 1, ShiftPixelsX: 100}
	m := New(Weights{Cursor: 1}, cfg, DefaultSourceConfig())
	geom := Geometry{Width: 1920, Height: 1080}

	dx1, _ := m.Mix(Input{CursorGlobalX: 960, CursorGlobalY: 540, CursorOK: true, MonitorGeometry: geom})
	// Move by less than the deadzone: the sample should be held, so the
	// normalized position (and thus offset) must not change.
	dx2, _ := m.Mix(Input{CursorGlobalX: 965, CursorGlobalY: 540, CursorOK: true, MonitorGeometry: geom})
	if dx1 != dx2 {
		t.Fatalf("movement under the deadzone should hold the last sample: %v != %v", dx1, dx2)
	}
}

func TestSourceEMASmoothsTowardsTarget(t *testing.T) {
	cfg := SourceConfig{SensitivityX: 1, SensitivityY: 1, EMAAlpha: 0.5, ShiftPixelsX: 100}
	m := New(Weights{Cursor: 1}, cfg, DefaultSourceConfig())
	geom := Geometry{Width: 1920, Height: 1080}

	// First sample seeds the EMA directly (no prior history), so it jumps
	// straight to the normalized value.
	first, _ := m.Mix(Input{CursorGlobalX: 1920, CursorGlobalY: 540, CursorOK: true, MonitorGeometry: geom})
	if first != 100 {
		t.Fatalf("first sample should seed the EMA directly, got %v", first)
	}

	// Cursor jumps back to center; with alpha=0.5 the EMA should land
	// halfway, not snap immediately to 0.
	second, _ := m.Mix(Input{CursorGlobalX: 960, CursorGlobalY: 540, CursorOK: true, MonitorGeometry: geom})
	if second != 50 {
		t.Fatalf("expected the EMA to land halfway (50) after one step at alpha=0.5, got %v", second)
	}
}

func TestResolveLegacyWeights(t *testing.T) {
	cases := []struct {
		mode LegacyMode
		want Weights
	}{
		{LegacyModeWorkspace, Weights{Workspace: 1, Cursor: 0, Window: 0}},
		{LegacyModeCursor, Weights{Workspace: 0, Cursor: 1, Window: 0}},
		{LegacyModeHybrid, Weights{Workspace: 0.7, Cursor: 0.3, Window: 0}},
	}
	for _, c := range cases {
		got, ok := ResolveLegacyWeights(c.mode)
		if !ok || got != c.want {
			t.Fatalf("mode %q: expected %+v, got %+v (ok=%v)", c.mode, c.want, got, ok)
		}
	}
}

func TestResolveLegacyWeightsUnknownModeFails(t *testing.T) {
	if _, ok := ResolveLegacyWeights("bogus"); ok {
		t.Fatal("an unrecognized legacy mode should fail rather than silently default")
	}
}

func TestWindowCenter(t *testing.T) {
	x, y := WindowCenter(100, 200, 300, 400)
	if x != 250 || y != 400 {
		t.Fatalf("expected center (250,400), got (%v,%v)", x, y)
	}
}

func TestCursorTickEnabledReflectsWeight(t *testing.T) {
	m := New(Weights{Cursor: 0}, DefaultSourceConfig(), DefaultSourceConfig())
	if m.CursorTickEnabled() {
		t.Fatal("cursor tick should be disabled when cursor_weight is 0")
	}
	m.Weights.Cursor = 0.5
	if !m.CursorTickEnabled() {
		t.Fatal("cursor tick should be enabled once cursor_weight > 0")
	}
}
