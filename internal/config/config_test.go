package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsWithNoFileOrFlags(t *testing.T) {
	fs := NewFlagSet("hyprlax")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(fs, "/nonexistent/hyprlax.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TargetFPS != 60 {
		t.Fatalf("expected default fps 60, got %d", cfg.TargetFPS)
	}
	if !cfg.Vsync {
		t.Fatal("expected default vsync true")
	}
	if cfg.WorkspaceWeight != 1 || cfg.CursorWeight != 0 {
		t.Fatalf("unexpected default weights: workspace=%v cursor=%v", cfg.WorkspaceWeight, cfg.CursorWeight)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprlax.toml")
	toml := `
[global]
fps = 90
vsync = false
cursor_weight = 0.5
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs := NewFlagSet("hyprlax")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TargetFPS != 90 {
		t.Fatalf("expected file fps 90, got %d", cfg.TargetFPS)
	}
	if cfg.Vsync {
		t.Fatal("expected file vsync=false to override the default")
	}
	if cfg.CursorWeight != 0.5 {
		t.Fatalf("expected file cursor_weight 0.5, got %v", cfg.CursorWeight)
	}
	if !cfg.WeightsExplicit {
		t.Fatal("expected WeightsExplicit since the file set cursor_weight")
	}
}

func TestCLIOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprlax.toml")
	if err := os.WriteFile(path, []byte("[global]\nfps = 90\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs := NewFlagSet("hyprlax")
	if err := fs.Parse([]string{"--fps", "144"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TargetFPS != 144 {
		t.Fatalf("expected CLI fps 144 to win over file's 90, got %d", cfg.TargetFPS)
	}
}

func TestEnvOverridesFileButNotCLI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprlax.toml")
	if err := os.WriteFile(path, []byte("[global]\nfps = 90\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("HYPRLAX_RENDER_FPS", "120")

	fs := NewFlagSet("hyprlax")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TargetFPS != 120 {
		t.Fatalf("expected env fps 120 to win over file's 90, got %d", cfg.TargetFPS)
	}

	fs2 := NewFlagSet("hyprlax")
	if err := fs2.Parse([]string{"--fps", "200"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg2, err := Load(fs2, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg2.TargetFPS != 200 {
		t.Fatalf("expected CLI fps 200 to win over env's 120, got %d", cfg2.TargetFPS)
	}
}

func TestParseLayerSpec(t *testing.T) {
	spec, err := ParseLayerSpec("bg.png:300:0.8:4:#ff0000:0.5")
	if err != nil {
		t.Fatalf("ParseLayerSpec: %v", err)
	}
	if spec.Image != "bg.png" || spec.ShiftPixels != 300 || spec.Opacity != 0.8 || spec.Blur != 4 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	if spec.TintHex != "#ff0000" || spec.TintStrength != 0.5 {
		t.Fatalf("unexpected tint fields: %+v", spec)
	}
}

func TestParseLayerSpecImageOnly(t *testing.T) {
	spec, err := ParseLayerSpec("bg.png")
	if err != nil {
		t.Fatalf("ParseLayerSpec: %v", err)
	}
	if spec.Image != "bg.png" || spec.Opacity != 1 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestParseLayerSpecRejectsEmptyImage(t *testing.T) {
	if _, err := ParseLayerSpec(""); err == nil {
		t.Fatal("expected an error for an empty --layer value")
	}
}

func TestCLILayerFlagsReplaceFileLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprlax.toml")
	toml := `
[[global.layers]]
path = "from-file.png"
opacity = 0.5
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs := NewFlagSet("hyprlax")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Layers) != 1 || cfg.Layers[0].Image != "from-file.png" {
		t.Fatalf("expected the file's layer list when no --layer flag given, got %+v", cfg.Layers)
	}

	fs2 := NewFlagSet("hyprlax")
	if err := fs2.Parse([]string{"--layer", "from-cli.png:100:1:0"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg2, err := Load(fs2, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg2.Layers) != 1 || cfg2.Layers[0].Image != "from-cli.png" {
		t.Fatalf("expected --layer to replace the file's layer list, got %+v", cfg2.Layers)
	}
}

func TestLegacyParallaxModeResolvesWeightsWhenNotExplicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprlax.toml")
	if err := os.WriteFile(path, []byte("[global]\nparallax_mode = \"cursor\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs := NewFlagSet("hyprlax")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CursorWeight != 1 || cfg.WorkspaceWeight != 0 {
		t.Fatalf("expected parallax_mode=cursor to resolve to cursor-only weights, got %+v", cfg)
	}
}

func TestExplicitWeightsOverrideLegacyParallaxMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprlax.toml")
	toml := `
[global]
parallax_mode = "cursor"
workspace_weight = 0.9
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs := NewFlagSet("hyprlax")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkspaceWeight != 0.9 {
		t.Fatalf("expected explicit workspace_weight 0.9 to survive, got %v", cfg.WorkspaceWeight)
	}
}

func TestNoTileFlagDisablesDefaultTile(t *testing.T) {
	fs := NewFlagSet("hyprlax")
	if err := fs.Parse([]string{"--no-tile-x"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, "/nonexistent/hyprlax.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TileX {
		t.Fatal("expected --no-tile-x to disable the default tile_x=true")
	}
	if !cfg.TileY {
		t.Fatal("expected tile_y to remain at its default")
	}
}

func TestAssumeYesFlagAlias(t *testing.T) {
	fs := NewFlagSet("hyprlax")
	if err := fs.Parse([]string{"--yes"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs, "/nonexistent/hyprlax.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.AssumeYes {
		t.Fatal("expected --yes to set AssumeYes")
	}
}
