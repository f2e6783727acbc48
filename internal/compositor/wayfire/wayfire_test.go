package wayfire

import (
	"bufio"
	"strings"
	"testing"
)

func TestPollEventsDecodesWorkspaceChanged(t *testing.T) {
	a := &Adapter{reader: bufio.NewReader(strings.NewReader(
		`{"event":"workspace-changed","x":1,"y":2}` + "\n"))}

	ev, ok, err := a.PollEvents()
	if err != nil || !ok {
		t.Fatalf("expected decoded event, ok=%v err=%v", ok, err)
	}
	if ev.ToX != 1 || ev.ToY != 2 {
		t.Fatalf("expected ToX=1 ToY=2, got %+v", ev)
	}
}

func TestPollEventsSkipsSameCoordinates(t *testing.T) {
	a := &Adapter{currentX: 1, currentY: 2, reader: bufio.NewReader(strings.NewReader(
		`{"event":"workspace-changed","x":1,"y":2}` + "\n"))}

	_, ok, err := a.PollEvents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("reporting the same (x,y) again should not emit an event")
	}
}

func TestPollEventsIgnoresOtherEventNames(t *testing.T) {
	a := &Adapter{reader: bufio.NewReader(strings.NewReader(
		`{"event":"view-mapped"}` + "\n"))}

	_, ok, err := a.PollEvents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("non-workspace events should not emit a WorkspaceChange")
	}
}
