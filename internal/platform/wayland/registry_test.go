package wayland

import "testing"

func TestRegistryTracksAndBindsGlobals(t *testing.T) {
	r := &Registry{globals: make(map[string]Global)}

	globalArgs := NewMessageBuilder().
		PutUint32(7).
		PutString("wl_compositor").
		PutUint32(4).
		BuildMessage(2, registryEventGlobal)

	// BuildMessage returns a full wire message (header + args); the
	// registry event handler only looks at the args portion.
	r.HandleEvent(Event{Object: 2, Opcode: registryEventGlobal, Args: globalArgs[8:]})

	if !r.Has("wl_compositor") {
		t.Fatal("expected wl_compositor to be tracked after a global event")
	}

	removeArgs := NewMessageBuilder().PutUint32(7).BuildMessage(2, registryEventGlobalRemove)
	r.HandleEvent(Event{Object: 2, Opcode: registryEventGlobalRemove, Args: removeArgs[8:]})

	if r.Has("wl_compositor") {
		t.Fatal("expected wl_compositor to be removed after a global_remove event")
	}
}

func TestOutputHandleEventRealizesOnDone(t *testing.T) {
	o := NewOutput(5)

	geomArgs := NewMessageBuilder().
		PutInt32(100).PutInt32(200).
		PutInt32(0).PutInt32(0).
		PutInt32(0).
		PutString("Make").PutString("Model").
		PutInt32(0).
		BuildMessage(5, outputEventGeometry)
	if o.HandleEvent(Event{Object: 5, Opcode: outputEventGeometry, Args: geomArgs[8:]}) {
		t.Fatal("geometry alone should not realize the output")
	}

	modeArgs := NewMessageBuilder().
		PutUint32(outputModeCurrent).
		PutInt32(1920).PutInt32(1080).
		PutInt32(60000).
		BuildMessage(5, outputEventMode)
	o.HandleEvent(Event{Object: 5, Opcode: outputEventMode, Args: modeArgs[8:]})

	doneArgs := NewMessageBuilder().BuildMessage(5, outputEventDone)
	if !o.HandleEvent(Event{Object: 5, Opcode: outputEventDone, Args: doneArgs[8:]}) {
		t.Fatal("expected the done event to realize the output")
	}

	if o.Width != 1920 || o.Height != 1080 {
		t.Fatalf("expected realized geometry 1920x1080, got %dx%d", o.Width, o.Height)
	}
	if o.GlobalX != 100 || o.GlobalY != 200 {
		t.Fatalf("expected global position (100,200), got (%d,%d)", o.GlobalX, o.GlobalY)
	}
}
