package sway

import (
	"bufio"
	"bytes"
	"testing"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, msgTypeRunCommand, []byte(`{"hello":"world"}`)); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	msgType, payload, err := readFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if msgType != msgTypeRunCommand {
		t.Fatalf("expected msgType %d, got %d", msgTypeRunCommand, msgType)
	}
	if string(payload) != `{"hello":"world"}` {
		t.Fatalf("payload mismatch: %s", payload)
	}
}

func TestPollEventsDecodesWorkspaceFocusChange(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"change":"focus","current":{"num":4,"output":"DP-1"}}`)
	if err := writeFrame(&buf, eventWorkspace, payload); err != nil {
		t.Fatalf("setup: %v", err)
	}

	a := &Adapter{eventBuf: bufio.NewReader(&buf)}
	ev, ok, err := a.PollEvents()
	if err != nil || !ok {
		t.Fatalf("expected decoded event, ok=%v err=%v", ok, err)
	}
	if ev.ToWSID != 4 || ev.MonitorName != "DP-1" {
		t.Fatalf("expected ToWSID=4 MonitorName=DP-1, got %+v", ev)
	}
}

func TestPollEventsSkipsNonFocusChanges(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"change":"init","current":{"num":1,"output":"DP-1"}}`)
	if err := writeFrame(&buf, eventWorkspace, payload); err != nil {
		t.Fatalf("setup: %v", err)
	}

	a := &Adapter{eventBuf: bufio.NewReader(&buf)}
	_, ok, err := a.PollEvents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("a non-focus workspace change should not emit a WorkspaceChange")
	}
}
