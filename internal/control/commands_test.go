package control

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hyprlax/hyprlax/internal/herr"
)

type fakeCommands struct {
	nextID int32
	layers map[int32]LayerInfo
	zOps   []string
	global map[string]string
	reload int
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{
		layers: make(map[int32]LayerInfo),
		global: make(map[string]string),
	}
}

func (f *fakeCommands) AddLayer(path string, props map[string]string) (int32, error) {
	f.nextID++
	id := f.nextID
	li := LayerInfo{ID: id, Path: path, Opacity: 1, Scale: 1}
	if v, ok := props["opacity"]; ok {
		fmt.Sscanf(v, "%f", &li.Opacity)
	}
	if v, ok := props["scale"]; ok {
		fmt.Sscanf(v, "%f", &li.Scale)
	}
	if v, ok := props["z"]; ok {
		fmt.Sscanf(v, "%d", &li.Z)
	}
	f.layers[id] = li
	return id, nil
}

func (f *fakeCommands) RemoveLayer(id int32) error {
	if _, ok := f.layers[id]; !ok {
		return herr.WithDetail(herr.ErrInvalidArgs, "no such layer")
	}
	delete(f.layers, id)
	return nil
}

func (f *fakeCommands) ModifyLayer(id int32, prop, val string) error {
	li, ok := f.layers[id]
	if !ok {
		return herr.WithDetail(herr.ErrInvalidArgs, "no such layer")
	}
	switch prop {
	case "opacity":
		fmt.Sscanf(val, "%f", &li.Opacity)
	case "z":
		fmt.Sscanf(val, "%d", &li.Z)
	}
	f.layers[id] = li
	return nil
}

func (f *fakeCommands) ListLayers(filter string) ([]LayerInfo, error) {
	out := make([]LayerInfo, 0, len(f.layers))
	for _, l := range f.layers {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeCommands) ClearLayers() error {
	f.layers = make(map[int32]LayerInfo)
	return nil
}

func (f *fakeCommands) ZOrder(op string, id int32) error {
	if _, ok := f.layers[id]; !ok {
		return herr.WithDetail(herr.ErrInvalidArgs, "no such layer")
	}
	f.zOps = append(f.zOps, fmt.Sprintf("%s:%d", op, id))
	return nil
}

func (f *fakeCommands) SetGlobal(prop, val string) error {
	f.global[prop] = val
	return nil
}

func (f *fakeCommands) GetGlobal(prop string) (string, error) {
	v, ok := f.global[prop]
	if !ok {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "unknown property")
	}
	return v, nil
}

func (f *fakeCommands) Status() (StatusInfo, error) {
	return StatusInfo{CompositorName: "hyprland", MonitorCount: 2, LayerCount: len(f.layers), TargetFPS: 60}, nil
}

func (f *fakeCommands) Reload() error {
	f.reload++
	return nil
}

func (f *fakeCommands) DiagTexinfo(id int32) (string, error) {
	if _, ok := f.layers[id]; !ok {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "no such layer")
	}
	return fmt.Sprintf("texture info for layer %d", id), nil
}

func TestDispatchAddReturnsID(t *testing.T) {
	fc := newFakeCommands()
	req, _ := ParseRequest("add /tmp/img.png scale=1.5 opacity=0.8 z=2")
	out, err := Dispatch(fc, req)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if out != "Layer added with ID: 1" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDispatchAddRequiresPath(t *testing.T) {
	fc := newFakeCommands()
	req, _ := ParseRequest("add")
	if _, err := Dispatch(fc, req); err == nil {
		t.Fatal("expected an error when add is called with no path")
	}
}

func TestDispatchFullRoundTrip(t *testing.T) {
	fc := newFakeCommands()

	add, _ := ParseRequest("add /tmp/img.png scale=1.5 opacity=0.8 z=2")
	out, err := Dispatch(fc, add)
	if err != nil || out != "Layer added with ID: 1" {
		t.Fatalf("add: out=%q err=%v", out, err)
	}

	mod, _ := ParseRequest("modify 1 opacity 0.5")
	out, err = Dispatch(fc, mod)
	if err != nil || out != "Layer 1 modified" {
		t.Fatalf("modify: out=%q err=%v", out, err)
	}

	list, _ := ParseRequest("list")
	out, err = Dispatch(fc, list)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "ID: 1") || !strings.Contains(out, "Opacity: 0.50") {
		t.Fatalf("unexpected list output: %q", out)
	}

	rm, _ := ParseRequest("remove 1")
	out, err = Dispatch(fc, rm)
	if err != nil || out != "Layer 1 removed" {
		t.Fatalf("remove: out=%q err=%v", out, err)
	}

	list2, _ := ParseRequest("list")
	out, err = Dispatch(fc, list2)
	if err != nil || out != "" {
		t.Fatalf("expected empty list after removal, got out=%q err=%v", out, err)
	}
}

func TestDispatchAliasesRmModLs(t *testing.T) {
	fc := newFakeCommands()
	add, _ := ParseRequest("add /tmp/img.png")
	Dispatch(fc, add)

	ls, _ := ParseRequest("ls")
	if out, err := Dispatch(fc, ls); err != nil || !strings.Contains(out, "ID: 1") {
		t.Fatalf("ls alias: out=%q err=%v", out, err)
	}

	mod, _ := ParseRequest("mod 1 opacity 0.25")
	if out, err := Dispatch(fc, mod); err != nil || out != "Layer 1 modified" {
		t.Fatalf("mod alias: out=%q err=%v", out, err)
	}

	rm, _ := ParseRequest("rm 1")
	if out, err := Dispatch(fc, rm); err != nil || out != "Layer 1 removed" {
		t.Fatalf("rm alias: out=%q err=%v", out, err)
	}
}

func TestDispatchZOrderShortcuts(t *testing.T) {
	fc := newFakeCommands()
	add, _ := ParseRequest("add /tmp/img.png")
	Dispatch(fc, add)

	front, _ := ParseRequest("front 1")
	if _, err := Dispatch(fc, front); err != nil {
		t.Fatalf("front: %v", err)
	}
	if len(fc.zOps) != 1 || fc.zOps[0] != "front:1" {
		t.Fatalf("expected one front:1 op, got %v", fc.zOps)
	}
}

func TestDispatchSetAndGet(t *testing.T) {
	fc := newFakeCommands()
	set, _ := ParseRequest("set fps 90")
	if _, err := Dispatch(fc, set); err != nil {
		t.Fatalf("set: %v", err)
	}
	get, _ := ParseRequest("get fps")
	out, err := Dispatch(fc, get)
	if err != nil || out != "90" {
		t.Fatalf("get: out=%q err=%v", out, err)
	}
}

func TestDispatchStatus(t *testing.T) {
	fc := newFakeCommands()
	req, _ := ParseRequest("status")
	out, err := Dispatch(fc, req)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Compositor: hyprland") || !strings.Contains(out, "Monitors: 2") {
		t.Fatalf("unexpected status output: %q", out)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	fc := newFakeCommands()
	req, _ := ParseRequest("bogus")
	if _, err := Dispatch(fc, req); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestDispatchDiagTexinfo(t *testing.T) {
	fc := newFakeCommands()
	add, _ := ParseRequest("add /tmp/img.png")
	Dispatch(fc, add)

	req, _ := ParseRequest("diag texinfo 1")
	out, err := Dispatch(fc, req)
	if err != nil || out != "texture info for layer 1" {
		t.Fatalf("diag: out=%q err=%v", out, err)
	}
}
