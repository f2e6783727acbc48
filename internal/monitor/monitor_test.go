package monitor

import (
	"testing"
	"time"

	"github.com/hyprlax/hyprlax/internal/easing"
	"github.com/hyprlax/hyprlax/internal/workspace"
)

func TestHandleContextChangeNoOpWhenUnchanged(t *testing.T) {
	m := New("out0", "DP-1")
	ctx := workspace.Context{Kind: workspace.GlobalNumeric, ID: 0}
	m.currentCtx = ctx

	m.HandleContextChange(ctx, 100, workspace.PolicyHighest, time.Second, easing.Linear, time.Unix(0, 0))
	if m.Anim.Active() {
		t.Fatal("handing the same context should be a no-op, not start an animation")
	}
}

func TestHandleContextChangeAnimatesOnTransition(t *testing.T) {
	m := New("out0", "DP-1")
	m.currentCtx = workspace.Context{Kind: workspace.GlobalNumeric, ID: 0}

	now := time.Unix(0, 0)
	m.HandleContextChange(workspace.Context{Kind: workspace.GlobalNumeric, ID: 2}, 100, workspace.PolicyHighest, time.Second, easing.Linear, now)

	if !m.Anim.Active() {
		t.Fatal("transitioning to a new workspace should start an animation")
	}
	if m.Anim.X.Target() != 200 {
		t.Fatalf("expected target offset 200, got %v", m.Anim.X.Target())
	}
	if !m.previousCtx.Equal(workspace.Context{Kind: workspace.GlobalNumeric, ID: 0}) {
		t.Fatal("previous context should be retained for transition calc")
	}
}

func TestRegistryPrimaryFallsBackToHead(t *testing.T) {
	r := NewRegistry()
	a := New("out0", "DP-1")
	b := New("out1", "DP-2")
	r.Add(a)
	r.Add(b)

	if r.Primary() != a {
		t.Fatal("with no monitor flagged primary, Primary() should fall back to the head")
	}

	b.Primary = true
	if r.Primary() != b {
		t.Fatal("Primary() should return the monitor flagged primary")
	}
}

func TestRegistryRemoveByOutput(t *testing.T) {
	r := NewRegistry()
	a := New("out0", "DP-1")
	r.Add(a)
	if !r.Remove("out0") {
		t.Fatal("expected Remove to find and remove the monitor")
	}
	if r.ByOutput("out0") != nil {
		t.Fatal("removed monitor should no longer be findable")
	}
	if r.Remove("out0") {
		t.Fatal("removing an already-removed output should report false")
	}
}

func TestEffectiveLayersInheritsGlobal(t *testing.T) {
	m := New("out0", "DP-1")
	if m.EffectiveLayers(nil) != nil {
		t.Fatal("with no override and a nil global, expected nil")
	}
}
