package niri

import (
	"bufio"
	"strings"
	"testing"
)

func TestPollEventsDecodesWorkspaceActivated(t *testing.T) {
	a := &Adapter{reader: bufio.NewReader(strings.NewReader(
		`{"WorkspaceActivated":{"id":7,"output":"eDP-1"}}` + "\n"))}

	ev, ok, err := a.PollEvents()
	if err != nil || !ok {
		t.Fatalf("expected decoded event, ok=%v err=%v", ok, err)
	}
	if ev.ToWSID != 7 || ev.MonitorName != "eDP-1" {
		t.Fatalf("expected ToWSID=7 MonitorName=eDP-1, got %+v", ev)
	}
}

func TestPollEventsWindowFocusChangedWithoutCachedPositionDoesNotEmit(t *testing.T) {
	id := int32(42)
	_ = id
	a := &Adapter{reader: bufio.NewReader(strings.NewReader(
		`{"WindowFocusChanged":{"id":42}}` + "\n"))}

	_, ok, err := a.PollEvents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("WindowFocusChanged alone must not emit a WorkspaceChange")
	}
}

func TestPollEventsSkipsNoOpSameWorkspace(t *testing.T) {
	a := &Adapter{currentWSID: 3, reader: bufio.NewReader(strings.NewReader(
		`{"WorkspaceActivated":{"id":3,"output":"eDP-1"}}` + "\n"))}

	_, ok, err := a.PollEvents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("activating the already-current workspace should not emit an event")
	}
}

func TestPollEventsWindowFocusChangedEmits2DFromCachedPosition(t *testing.T) {
	a := &Adapter{reader: bufio.NewReader(strings.NewReader(
		`{"WindowsChanged":{"windows":[{"id":5,"pos_in_scrolling_layout":[2,1]}]}}` + "\n" +
			`{"WindowFocusChanged":{"id":5}}` + "\n"))}

	_, ok, err := a.PollEvents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("WindowsChanged must only update the position cache, not emit an event")
	}

	ev, ok, err := a.PollEvents()
	if err != nil || !ok {
		t.Fatalf("expected decoded event, ok=%v err=%v", ok, err)
	}
	if ev.ToX != 2 || ev.ToY != 1 || ev.FromX != -1 || ev.FromY != -1 {
		t.Fatalf("expected ToX=2 ToY=1 FromX=-1 FromY=-1, got %+v", ev)
	}
	if !ev.Has2D {
		t.Fatal("expected Has2D to be set for a coordinate-based transition")
	}
}

func TestEncode2D(t *testing.T) {
	if got := Encode2D(2, 5); got != 2005 {
		t.Fatalf("expected row=2 col=5 to encode as 2005, got %d", got)
	}
}
