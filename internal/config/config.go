// Package config loads the daemon's global configuration as a single-pass
// merge `defaults ⊕ file ⊕ env ⊕ cli`, per spec.md §6's config-source list
// and the Design Note "Config precedence with selective reapply" (SPEC_FULL
// §9: implemented here as the single-pass variant — viper's own layering
// already resolves CLI > env > file > defaults, so there is no reapply step
// to get wrong).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hyprlax/hyprlax/internal/easing"
	"github.com/hyprlax/hyprlax/internal/legacyconfig"
	"github.com/hyprlax/hyprlax/internal/mixer"
)

// LayerSpec is one `--layer` CLI argument or `[[global.layers]]` TOML
// entry, predating GPU upload (internal/layer.Layer is built from these).
type LayerSpec struct {
	Image        string
	ShiftPixels  float64
	Opacity      float64
	Blur         float64
	TintHex      string
	TintStrength float64
}

// Config is every field spec.md §3 "Global configuration" names, plus the
// deprecated parallax_mode and the HYPRLAX_* overrides of §6.
type Config struct {
	ConfigPath string

	TargetFPS         int
	Vsync             bool
	AnimationDuration float64
	DefaultEasing     easing.Name

	RendererName    string
	PlatformName    string
	CompositorName  string

	// ParallaxMode is the deprecated single-mode selector; WeightsExplicit
	// reports whether any of the three *_weight fields were themselves set
	// (by file, env, or CLI), in which case ParallaxMode must be ignored
	// per mixer.ResolveLegacyWeights's contract.
	ParallaxMode    string
	WeightsExplicit bool
	WorkspaceWeight float64
	CursorWeight    float64
	WindowWeight    float64

	EMAAlpha     float64
	DeadzonePx   float64
	SensitivityX float64
	SensitivityY float64
	InvertX      bool
	InvertY      bool

	MaxOffsetX float64
	MaxOffsetY float64

	// ShiftPixels is the global default layer shift. There is no separate
	// Shift field: the control `set`/`get` commands accept both `shift` and
	// `shift_pixels`, and the daemon's SetGlobal resolves `shift` as percent
	// of the primary monitor's width when one is registered, pixels
	// otherwise, storing the result here.
	ShiftPixels float64

	OverflowMode string
	TileX        bool
	TileY        bool
	MarginPxX    float64
	MarginPxY    float64

	DebounceMS     int
	IdlePollRateHz float64

	Debug        bool
	Trace        bool
	Verbose      int
	DebugLogPath string

	SocketSuffix string

	AssumeYes      bool
	NonInteractive bool

	Layers []LayerSpec
}

// envBindings maps a viper key to the irregular HYPRLAX_* env var name
// spec.md §6 documents for it; keys not listed here simply have no env
// override.
var envBindings = map[string]string{
	"fps":                   "HYPRLAX_RENDER_FPS",
	"vsync":                 "HYPRLAX_RENDER_VSYNC",
	"overflow":              "HYPRLAX_RENDER_OVERFLOW",
	"tile_x":                "HYPRLAX_RENDER_TILE_X",
	"tile_y":                "HYPRLAX_RENDER_TILE_Y",
	"margin_px_x":           "HYPRLAX_RENDER_MARGIN_PX_X",
	"margin_px_y":           "HYPRLAX_RENDER_MARGIN_PX_Y",
	"parallax_mode":         "HYPRLAX_PARALLAX_MODE",
	"cursor_weight":         "HYPRLAX_PARALLAX_SOURCES_CURSOR_WEIGHT",
	"workspace_weight":      "HYPRLAX_PARALLAX_SOURCES_WORKSPACE_WEIGHT",
	"window_weight":         "HYPRLAX_PARALLAX_SOURCES_WINDOW_WEIGHT",
	"duration":              "HYPRLAX_ANIMATION_DURATION",
	"easing":                "HYPRLAX_ANIMATION_EASING",
	"socket_suffix":         "HYPRLAX_SOCKET_SUFFIX",
	"assume_yes":            "HYPRLAX_ASSUME_YES",
	"non_interactive":       "HYPRLAX_NONINTERACTIVE",
	"debug":                 "HYPRLAX_DEBUG",
	"trace":                 "HYPRLAX_TRACE",
	"verbose":               "HYPRLAX_VERBOSE",
}

func defaults() map[string]any {
	return map[string]any{
		"fps":              60,
		"vsync":            true,
		"duration":         0.6,
		"easing":           string(easing.EaseOut),
		"renderer":         "",
		"platform":         "",
		"compositor":       "",
		"parallax_mode":    "",
		"workspace_weight": 1.0,
		"cursor_weight":    0.0,
		"window_weight":    0.0,
		"ema_alpha":        0.15,
		"deadzone_px":      0.0,
		"sensitivity_x":    1.0,
		"sensitivity_y":    1.0,
		"invert_x":         false,
		"invert_y":         false,
		"max_offset_x":     500.0,
		"max_offset_y":     500.0,
		"shift":            200.0,
		"overflow":         "repeat-edge",
		"tile_x":           true,
		"tile_y":           true,
		"margin_px_x":      0.0,
		"margin_px_y":      0.0,
		"debounce_ms":      10,
		"idle_poll_rate":   0.0,
		"debug":            false,
		"trace":            false,
		"verbose":          0,
		"debug_log":        "",
		"socket_suffix":    "",
		"assume_yes":       false,
		"non_interactive":  false,
	}
}

// NewFlagSet registers every flag in spec.md §6's CLI surface against a
// fresh *pflag.FlagSet. Callers parse args into it (fs.Parse) before passing
// it to Load; a separately-parsed flag set lets cmd/hyprlax print usage via
// pflag's own -h/--help handling without Load needing to know about
// os.Args.
func NewFlagSet(progName string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(progName, pflag.ContinueOnError)

	fs.IntP("fps", "f", 0, "target frame rate (30-240)")
	fs.Float64P("shift", "s", 0, "default layer shift in pixels")
	fs.Float64P("duration", "d", 0, "animation duration in seconds")
	fs.StringP("easing", "e", "", "default easing curve")
	fs.StringP("config", "c", "", "path to a TOML (or legacy .conf) config file")
	fs.BoolP("debug", "D", false, "enable debug logging")
	fs.String("debug-log", "", "write debug log to this file (or a derived default if given with no value)")
	fs.Lookup("debug-log").NoOptDefVal = " "
	fs.BoolP("trace", "T", false, "enable trace logging")
	fs.StringP("renderer", "r", "", "renderer backend name")
	fs.StringP("platform", "p", "", "platform backend name")
	fs.StringP("compositor", "C", "", "compositor backend name")
	fs.BoolP("vsync", "V", false, "enable vsync")
	fs.String("verbose", "", "verbosity level (0-4 or a level name)")
	fs.String("parallax", "", "deprecated: workspace|cursor|hybrid")
	fs.String("input", "", "input source spec, e.g. workspace:1,cursor:0.3")
	fs.Float64("mouse-weight", 0, "cursor input weight (0-1)")
	fs.Float64("workspace-weight", 0, "workspace input weight (0-1)")
	fs.Bool("accumulate", false, "accumulate offsets across workspace switches")
	fs.Float64("trail-strength", 0, "cursor EMA smoothing alpha")
	fs.String("overflow", "", "default overflow mode")
	fs.Bool("tile-x", false, "tile layers horizontally by default")
	fs.Bool("tile-y", false, "tile layers vertically by default")
	fs.Bool("no-tile-x", false, "disable horizontal tiling by default")
	fs.Bool("no-tile-y", false, "disable vertical tiling by default")
	fs.Float64("margin-px-x", 0, "default horizontal margin in pixels")
	fs.Float64("margin-px-y", 0, "default vertical margin in pixels")
	fs.Float64("idle-poll-rate", 0, "idle-state poll rate in Hz")
	fs.Bool("non-interactive", false, "refuse any prompt instead of blocking on stdin")
	fs.Bool("yes", false, "assume yes to any prompt")
	fs.StringArray("layer", nil, "image:shift:opacity:blur[:#RRGGBB[:strength]], repeatable")
	fs.Bool("version", false, "print the version and exit")

	return fs
}

// ParseLayerSpec parses one `--layer` value: `image:shift:opacity:blur[:#RRGGBB[:strength]]`.
// Only `image` is required; omitted or empty trailing fields keep this
// function's defaults (shift 1, opacity 1, blur 0, tint strength 1).
func ParseLayerSpec(raw string) (LayerSpec, error) {
	parts := strings.Split(raw, ":")
	if len(parts) == 0 || parts[0] == "" {
		return LayerSpec{}, fmt.Errorf("config: empty --layer image path in %q", raw)
	}
	spec := LayerSpec{Image: parts[0], Opacity: 1, ShiftPixels: 1, TintStrength: 1}
	fields := []*float64{&spec.ShiftPixels, &spec.Opacity, &spec.Blur}
	for i := 1; i < len(parts) && i-1 < len(fields); i++ {
		if parts[i] == "" {
			continue
		}
		if _, err := fmt.Sscanf(parts[i], "%g", fields[i-1]); err != nil {
			return LayerSpec{}, fmt.Errorf("config: invalid numeric field %d in --layer %q: %w", i, raw, err)
		}
	}
	if len(parts) > 4 && parts[4] != "" {
		spec.TintHex = parts[4]
	}
	if len(parts) > 5 && parts[5] != "" {
		if _, err := fmt.Sscanf(parts[5], "%g", &spec.TintStrength); err != nil {
			return LayerSpec{}, fmt.Errorf("config: invalid tint strength in --layer %q: %w", raw, err)
		}
	}
	return spec, nil
}

// layerSpecFromTOML converts one `[[global.layers]]` table (as decoded by
// viper/pelletier-toml into a plain map) into a LayerSpec, defaulting
// missing numeric fields the same way ParseLayerSpec does.
func layerSpecFromTOML(table map[string]any) LayerSpec {
	spec := LayerSpec{Opacity: 1, ShiftPixels: 1, TintStrength: 1}
	if v, ok := table["path"].(string); ok {
		spec.Image = v
	}
	if v, ok := toFloat(table["shift_multiplier"]); ok {
		spec.ShiftPixels = v
	} else if v, ok := toFloat(table["shift_pixels"]); ok {
		spec.ShiftPixels = v
	}
	if v, ok := toFloat(table["opacity"]); ok {
		spec.Opacity = v
	}
	if v, ok := toFloat(table["blur"]); ok {
		spec.Blur = v
	}
	if v, ok := table["tint"].(string); ok {
		spec.TintHex = v
	}
	if v, ok := toFloat(table["tint_strength"]); ok {
		spec.TintStrength = v
	}
	return spec
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Load builds the final Config as defaults ⊕ file ⊕ env ⊕ cli, where fs has
// already had args parsed into it (see NewFlagSet). configPathOverride, if
// non-empty, takes priority over fs's --config/-c value — used when the
// caller already resolved a legacy-to-TOML conversion to a concrete path.
func Load(fs *pflag.FlagSet, configPathOverride string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults() {
		v.SetDefault(key, val)
	}

	configPath := configPathOverride
	if configPath == "" {
		configPath, _ = fs.GetString("config")
	}
	if configPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configPath = filepath.Join(home, ".config", "hyprlax", "hyprlax.toml")
		}
	}
	// TOML files nest scalars and layers under [global]; read them with a
	// scratch instance and promote each present scalar via SetDefault,
	// which overwrites the compile-time default but still sits below the
	// env and CLI tiers BindEnv/BindPFlags add next — giving exactly
	// defaults ⊕ file ⊕ env ⊕ cli without a second reapply pass. Layers are
	// a whole-field override (CLI --layer, if given, replaces the file's
	// [[global.layers]] list rather than merging with it), so they're kept
	// out of viper's per-scalar precedence chain.
	var fileLayers []LayerSpec
	fileFieldSet := map[string]bool{}
	_, statErr := os.Stat(configPath)
	fileExists := configPath != "" && statErr == nil
	if fileExists && !legacyconfig.IsLegacyPath(configPath) {
		fileV := viper.New()
		fileV.SetConfigFile(configPath)
		fileV.SetConfigType("toml")
		if err := fileV.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
		for k, val := range fileV.GetStringMap("global") {
			if k == "layers" {
				continue
			}
			v.SetDefault(k, val)
			fileFieldSet[k] = true
		}
		if raw, ok := fileV.Get("global.layers").([]any); ok {
			for _, entry := range raw {
				if table, ok := entry.(map[string]any); ok {
					fileLayers = append(fileLayers, layerSpecFromTOML(table))
				}
			}
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", env, err)
		}
	}

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}
	// BindPFlags keys each flag under its own dashed name; a handful of
	// spec.md §6 flags spell their field differently, so bind those
	// explicitly onto the snake_case viper key they're meant to override.
	mismatched := map[string]string{
		"debug-log":       "debug_log",
		"parallax":        "parallax_mode",
		"margin-px-x":     "margin_px_x",
		"margin-px-y":     "margin_px_y",
		"idle-poll-rate":  "idle_poll_rate",
		"non-interactive": "non_interactive",
		"yes":             "assume_yes",
	}
	for flagName, key := range mismatched {
		if f := fs.Lookup(flagName); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind flag %s: %w", flagName, err)
			}
		}
	}

	cfg := &Config{
		ConfigPath:        configPath,
		TargetFPS:         v.GetInt("fps"),
		Vsync:             v.GetBool("vsync"),
		AnimationDuration: v.GetFloat64("duration"),
		DefaultEasing:     easing.Name(v.GetString("easing")),
		RendererName:      v.GetString("renderer"),
		PlatformName:      v.GetString("platform"),
		CompositorName:    v.GetString("compositor"),
		ParallaxMode:      v.GetString("parallax_mode"),
		WorkspaceWeight:   v.GetFloat64("workspace_weight"),
		CursorWeight:      v.GetFloat64("cursor_weight"),
		WindowWeight:      v.GetFloat64("window_weight"),
		EMAAlpha:          v.GetFloat64("ema_alpha"),
		DeadzonePx:        v.GetFloat64("deadzone_px"),
		SensitivityX:      v.GetFloat64("sensitivity_x"),
		SensitivityY:      v.GetFloat64("sensitivity_y"),
		InvertX:           v.GetBool("invert_x"),
		InvertY:           v.GetBool("invert_y"),
		MaxOffsetX:        v.GetFloat64("max_offset_x"),
		MaxOffsetY:        v.GetFloat64("max_offset_y"),
		ShiftPixels:       v.GetFloat64("shift"),
		OverflowMode:      v.GetString("overflow"),
		TileX:             v.GetBool("tile_x"),
		TileY:             v.GetBool("tile_y"),
		MarginPxX:         v.GetFloat64("margin_px_x"),
		MarginPxY:         v.GetFloat64("margin_px_y"),
		DebounceMS:        v.GetInt("debounce_ms"),
		IdlePollRateHz:    v.GetFloat64("idle_poll_rate"),
		Debug:             v.GetBool("debug"),
		Trace:             v.GetBool("trace"),
		DebugLogPath:      v.GetString("debug_log"),
		SocketSuffix:      v.GetString("socket_suffix"),
		AssumeYes:         v.GetBool("assume_yes"),
		NonInteractive:    v.GetBool("non_interactive"),
	}
	cfg.Verbose = v.GetInt("verbose")

	cfg.WeightsExplicit = fieldExplicitlySet(fileFieldSet, fs, "workspace_weight", "workspace-weight") ||
		fieldExplicitlySet(fileFieldSet, fs, "cursor_weight", "mouse-weight") ||
		fieldExplicitlySet(fileFieldSet, fs, "window_weight", "")

	if alias := fs.Lookup("mouse-weight"); alias != nil && alias.Changed {
		cfg.CursorWeight = v.GetFloat64("mouse-weight")
		cfg.WeightsExplicit = true
	}
	if alias := fs.Lookup("workspace-weight"); alias != nil && alias.Changed {
		cfg.WorkspaceWeight = v.GetFloat64("workspace-weight")
		cfg.WeightsExplicit = true
	}
	if alias := fs.Lookup("trail-strength"); alias != nil && alias.Changed {
		cfg.EMAAlpha = v.GetFloat64("trail-strength")
	}
	if fs.Lookup("tile-x") != nil && fs.Lookup("tile-x").Changed {
		cfg.TileX = true
	}
	if fs.Lookup("no-tile-x") != nil && fs.Lookup("no-tile-x").Changed {
		cfg.TileX = false
	}
	if fs.Lookup("tile-y") != nil && fs.Lookup("tile-y").Changed {
		cfg.TileY = true
	}
	if fs.Lookup("no-tile-y") != nil && fs.Lookup("no-tile-y").Changed {
		cfg.TileY = false
	}

	if !cfg.WeightsExplicit && cfg.ParallaxMode != "" {
		if w, ok := mixer.ResolveLegacyWeights(mixer.LegacyMode(cfg.ParallaxMode)); ok {
			cfg.WorkspaceWeight, cfg.CursorWeight, cfg.WindowWeight = w.Workspace, w.Cursor, w.Window
		}
	}

	// --layer is a whole-field CLI override: given at all, it replaces the
	// file's [[global.layers]] list rather than merging with it.
	if layerFlag := fs.Lookup("layer"); layerFlag != nil && layerFlag.Changed {
		for _, raw := range v.GetStringSlice("layer") {
			spec, err := ParseLayerSpec(raw)
			if err != nil {
				return nil, err
			}
			cfg.Layers = append(cfg.Layers, spec)
		}
	} else {
		cfg.Layers = fileLayers
	}

	return cfg, nil
}

// fieldExplicitlySet reports whether key was set by anything above
// defaults: the config file, an env var, or a CLI flag (including the
// given legacy flag alias name, if non-empty).
func fieldExplicitlySet(fileFieldSet map[string]bool, fs *pflag.FlagSet, key, aliasFlag string) bool {
	if fileFieldSet[key] {
		return true
	}
	if env, ok := envBindings[key]; ok {
		if _, present := os.LookupEnv(env); present {
			return true
		}
	}
	if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil && f.Changed {
		return true
	}
	if aliasFlag != "" {
		if f := fs.Lookup(aliasFlag); f != nil && f.Changed {
			return true
		}
	}
	return false
}
