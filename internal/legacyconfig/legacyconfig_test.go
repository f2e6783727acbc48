package legacyconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	return p
}

func TestIsLegacyPath(t *testing.T) {
	if !IsLegacyPath("/tmp/parallax.conf") || !IsLegacyPath("/tmp/parallax.CONF") {
		t.Fatal("expected .conf and .CONF to be recognized as legacy")
	}
	if IsLegacyPath("/tmp/hyprlax.toml") {
		t.Fatal("did not expect .toml to be recognized as legacy")
	}
}

func TestReadParsesGlobalsAndLayers(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "parallax.conf", strings.Join([]string{
		"# a comment line",
		"fps 90",
		"duration 0.8 # trailing comment",
		"vsync 1",
		"easing quad",
		"layer bg.png 1.5 0.9 2.0",
		"layer fg.png",
	}, "\n"))

	p, err := Read(src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !p.HaveFPS || p.FPS != 90 {
		t.Fatalf("unexpected fps: %+v", p)
	}
	if !p.HaveDuration || p.Duration != 0.8 {
		t.Fatalf("unexpected duration: %+v", p)
	}
	if !p.HaveVsync || !p.Vsync {
		t.Fatalf("unexpected vsync: %+v", p)
	}
	if !p.HaveEasing || p.Easing != "quad" {
		t.Fatalf("unexpected easing: %+v", p)
	}
	if len(p.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(p.Layers))
	}
	if p.Layers[0].ShiftMultiplier != 1.5 || p.Layers[0].Opacity != 0.9 || p.Layers[0].Blur != 2.0 {
		t.Fatalf("unexpected first layer: %+v", p.Layers[0])
	}
	if p.Layers[1].ShiftMultiplier != 1 || p.Layers[1].Opacity != 1 {
		t.Fatalf("expected defaults on second layer: %+v", p.Layers[1])
	}
	if !filepath.IsAbs(p.Layers[0].Path) {
		t.Fatalf("expected layer path resolved relative to source dir, got %q", p.Layers[0].Path)
	}
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := &Parsed{
		HaveFPS: true, FPS: 75,
		HaveShift: true, Shift: 300,
		Layers: []Layer{{Path: filepath.Join(dir, "bg.png"), ShiftMultiplier: 1, Opacity: 1}},
	}
	dst := filepath.Join(dir, "hyprlax.toml")
	if err := WriteTOML(p, dst); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "fps") || !strings.Contains(string(data), "bg.png") {
		t.Fatalf("unexpected TOML output: %s", data)
	}
}

func TestConvertRefusesNonInteractiveWithoutYes(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "parallax.conf", "fps 60\n")
	dst := filepath.Join(dir, "out.toml")

	_, err := Convert(Options{
		SrcPath:        src,
		DstPath:        dst,
		NonInteractive: true,
		Stdin:          strings.NewReader(""),
	})
	if err == nil {
		t.Fatal("expected a refusal error")
	}
}

func TestConvertSucceedsWithAssumeYes(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "parallax.conf", "fps 60\nlayer bg.png\n")
	dst := filepath.Join(dir, "out.toml")

	got, err := Convert(Options{
		SrcPath:        src,
		DstPath:        dst,
		AssumeYes:      true,
		NonInteractive: true,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != dst {
		t.Fatalf("expected %q, got %q", dst, got)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected TOML file to exist: %v", err)
	}
}

func TestConvertAcceptsInteractiveConfirmation(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "parallax.conf", "fps 60\n")
	dst := filepath.Join(dir, "out.toml")
	if err := os.WriteFile(dst, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed dst: %v", err)
	}

	_, err := Convert(Options{
		SrcPath: src,
		DstPath: dst,
		Stdin:   strings.NewReader("y\n"),
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
}

func TestConvertRejectsInteractiveDecline(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "parallax.conf", "fps 60\n")
	dst := filepath.Join(dir, "out.toml")
	if err := os.WriteFile(dst, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed dst: %v", err)
	}

	_, err := Convert(Options{
		SrcPath: src,
		DstPath: dst,
		Stdin:   strings.NewReader("n\n"),
	})
	if err == nil {
		t.Fatal("expected decline to produce an error")
	}
}
