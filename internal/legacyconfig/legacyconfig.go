// Package legacyconfig reads the deprecated line-oriented `.conf` format and
// converts it to the TOML layout internal/config reads, per spec.md §4.7's
// "Locally-run convert-config" and §6's legacy-config filesystem note.
//
// The line grammar and default paths are grounded on
// original_source/src/core/config_legacy.c: one directive per line, `#`
// (or trailing ` #`/`\t#`) starts a comment, `layer <path> [shift] [opacity]
// [blur]` appends a layer, and a handful of bare `key value` globals.
package legacyconfig

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Layer is one legacy `layer` directive, defaults matching config_legacy.c.
type Layer struct {
	Path            string
	ShiftMultiplier float64
	Opacity         float64
	Blur            float64
}

// Parsed holds every directive found in a legacy .conf file. The have*
// flags mirror config_legacy.c's have_* bits so an unset field doesn't
// clobber a TOML default with a zero value.
type Parsed struct {
	SourcePath string

	HaveDuration bool
	Duration     float64
	HaveShift    bool
	Shift        float64
	HaveFPS      bool
	FPS          int
	HaveVsync    bool
	Vsync        bool
	HaveEasing   bool
	Easing       string
	HaveIdle     bool
	IdleHz       float64
	HaveScale    bool
	Scale        float64

	Layers []Layer
}

// IsLegacyPath reports whether path has the legacy `.conf` extension (case
// insensitive), the same sniff main.c uses to decide whether --config
// points at a legacy file.
func IsLegacyPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".conf")
}

// DefaultPaths returns the legacy source and TOML destination paths under
// $HOME used when no explicit path is given, per legacy_paths_default.
func DefaultPaths() (legacyPath, tomlPath string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("legacyconfig: resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "hyprlax")
	return filepath.Join(dir, "parallax.conf"), filepath.Join(dir, "hyprlax.toml"), nil
}

func stripInlineComment(line string) string {
	for i, r := range line {
		if r != '#' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return line[:i]
		}
	}
	return line
}

// Read parses a legacy config file, resolving layer image paths relative
// to the file's own directory (config_legacy.c's resolve_relative_to).
func Read(path string) (*Parsed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("legacyconfig: open %s: %w", path, err)
	}
	defer f.Close()

	p := &Parsed{SourcePath: path}
	baseDir := filepath.Dir(path)

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(stripInlineComment(sc.Text()))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, rest := fields[0], fields[1:]
		switch cmd {
		case "layer":
			if len(rest) == 0 {
				continue
			}
			l := Layer{ShiftMultiplier: 1, Opacity: 1}
			img := rest[0]
			if !filepath.IsAbs(img) {
				img = filepath.Join(baseDir, img)
			}
			l.Path = img
			if len(rest) > 1 {
				l.ShiftMultiplier = parseFloatOr(rest[1], 1)
			}
			if len(rest) > 2 {
				l.Opacity = parseFloatOr(rest[2], 1)
			}
			if len(rest) > 3 {
				l.Blur = parseFloatOr(rest[3], 0)
			}
			p.Layers = append(p.Layers, l)
		case "duration":
			if v, ok := takeFloat(rest); ok {
				p.HaveDuration, p.Duration = true, v
			}
		case "shift":
			if v, ok := takeFloat(rest); ok {
				p.HaveShift, p.Shift = true, v
			}
		case "fps":
			if v, ok := takeFloat(rest); ok {
				p.HaveFPS, p.FPS = true, int(v)
			}
		case "vsync":
			if v, ok := takeFloat(rest); ok {
				p.HaveVsync, p.Vsync = true, v != 0
			}
		case "easing":
			if len(rest) > 0 {
				p.HaveEasing, p.Easing = true, rest[0]
			}
		case "idle_poll_rate":
			if v, ok := takeFloat(rest); ok {
				p.HaveIdle, p.IdleHz = true, v
			}
		case "scale":
			if v, ok := takeFloat(rest); ok {
				p.HaveScale, p.Scale = true, v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("legacyconfig: read %s: %w", path, err)
	}
	return p, nil
}

func takeFloat(fields []string) (float64, bool) {
	if len(fields) == 0 {
		return 0, false
	}
	return parseFloatOr(fields[0], 0), true
}

func parseFloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// WriteTOML renders p as the `[global]` + `[[global.layers]]` TOML layout
// internal/config expects, via a scratch viper instance (the same TOML
// encoder internal/config reads with) rather than hand-rolling a writer.
// Image paths are relativized to dstPath's directory when possible, matching
// config_legacy.c's relativize_to_dir.
func WriteTOML(p *Parsed, dstPath string) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("legacyconfig: create %s: %w", filepath.Dir(dstPath), err)
	}

	global := map[string]any{}
	if p.HaveFPS {
		global["fps"] = p.FPS
	}
	if p.HaveDuration {
		global["duration"] = p.Duration
	}
	if p.HaveScale {
		global["scale"] = p.Scale
	}
	if p.HaveShift {
		global["shift"] = p.Shift
	}
	if p.HaveEasing && p.Easing != "" {
		global["easing"] = p.Easing
	}
	if p.HaveVsync {
		global["vsync"] = p.Vsync
	}
	if p.HaveIdle {
		global["idle_poll_rate"] = p.IdleHz
	}

	dstDir := filepath.Dir(dstPath)
	layers := make([]map[string]any, 0, len(p.Layers))
	for _, l := range p.Layers {
		path := l.Path
		if rel, err := filepath.Rel(dstDir, l.Path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
		entry := map[string]any{
			"path":             path,
			"shift_multiplier": nonZeroOr(l.ShiftMultiplier, 1),
			"opacity":          nonZeroOr(l.Opacity, 1),
			"blur":             l.Blur,
		}
		if p.HaveScale {
			entry["scale"] = p.Scale
		}
		layers = append(layers, entry)
	}
	if len(layers) > 0 {
		global["layers"] = layers
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("global", global)
	if err := v.WriteConfigAs(dstPath); err != nil {
		return fmt.Errorf("legacyconfig: write %s: %w", dstPath, err)
	}
	return nil
}

func nonZeroOr(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
