package workspace

import (
	"testing"
	"time"
)

type fakeMonitor struct {
	ctx   Context
	delta Offset
}

func (f *fakeMonitor) CurrentContext() Context { return f.ctx }
func (f *fakeMonitor) ApplyContextChange(newCtx Context, delta Offset, now time.Time) {
	f.ctx = newCtx
	f.delta = delta
}

func TestHandleStealAppliesBothMonitorsAtomically(t *testing.T) {
	a := &fakeMonitor{ctx: Context{Kind: GlobalNumeric, ID: 2}}
	b := &fakeMonitor{ctx: Context{Kind: GlobalNumeric, ID: 0}}

	aNext := Context{Kind: GlobalNumeric, ID: 0} // A loses the workspace
	bNext := Context{Kind: GlobalNumeric, ID: 2} // B gains it

	HandleSteal(a, b, aNext, bNext, 100, PolicyHighest, time.Unix(0, 0))

	if !a.ctx.Equal(aNext) {
		t.Fatalf("monitor A should have transitioned to %+v, got %+v", aNext, a.ctx)
	}
	if !b.ctx.Equal(bNext) {
		t.Fatalf("monitor B should have transitioned to %+v, got %+v", bNext, b.ctx)
	}
	if a.delta.X != -200 {
		t.Fatalf("monitor A delta should reflect 2->0, got %v", a.delta.X)
	}
	if b.delta.X != 200 {
		t.Fatalf("monitor B delta should reflect 0->2, got %v", b.delta.X)
	}
}
