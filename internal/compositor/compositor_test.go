package compositor

import (
	"context"
	"testing"
)

type fakeAdapter struct {
	name   string
	detect bool
}

func (f *fakeAdapter) Name() string                                       { return f.name }
func (f *fakeAdapter) Detect() bool                                       { return f.detect }
func (f *fakeAdapter) Init(ctx context.Context, platformHandle any) error { return nil }
func (f *fakeAdapter) ConnectIPC(ctx context.Context) error               { return nil }
func (f *fakeAdapter) PollEvents() (Event, bool, error)                   { return Event{}, false, nil }
func (f *fakeAdapter) EventFD() int                                       { return -1 }
func (f *fakeAdapter) GetCursorPosition() (float64, float64, bool)        { return 0, 0, true }
func (f *fakeAdapter) GetActiveWindowGeometry() (WindowGeometry, bool)    { return WindowGeometry{}, false }
func (f *fakeAdapter) SendCommand(cmd string) ([]byte, error)             { return nil, nil }
func (f *fakeAdapter) Capabilities() Capability                          { return 0 }
func (f *fakeAdapter) Close() error                                       { return nil }

func TestEffectiveCapabilitiesForcesCursorBit(t *testing.T) {
	a := &fakeAdapter{name: "fake", detect: true}
	got := EffectiveCapabilities(a)
	if !got.Has(CapGlobalCursor) {
		t.Fatal("an adapter with a working GetCursorPosition should have global_cursor forced on")
	}
}

func TestCreateUnknownNameFails(t *testing.T) {
	if _, ok := Create("not-a-real-backend"); ok {
		t.Fatal("Create with an unknown name should fail")
	}
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic on duplicate registration")
		}
	}()
	Register("__test_dup__", func() Adapter { return &fakeAdapter{} })
	Register("__test_dup__", func() Adapter { return &fakeAdapter{} })
}
