package mixer

// LegacyMode names the deprecated single-mode parallax selector, kept for
// backward-compatible config files per spec.md §4.5.
type LegacyMode string

const (
	LegacyModeWorkspace LegacyMode = "workspace"
	LegacyModeCursor    LegacyMode = "cursor"
	LegacyModeHybrid    LegacyMode = "hybrid"
)

// ResolveLegacyWeights maps a deprecated parallax_mode onto the new
// Weights triple; the bool result reports whether mode was recognized.
// When a config file also sets any of workspace_weight/cursor_weight/
// window_weight explicitly, those values win outright and this function
// should not be called at all; this is only for config files carrying
// parallax_mode alone.
func ResolveLegacyWeights(mode LegacyMode) (Weights, bool) {
	switch mode {
	case LegacyModeWorkspace:
		return Weights{Workspace: 1, Cursor: 0, Window: 0}, true
	case LegacyModeCursor:
		return Weights{Workspace: 0, Cursor: 1, Window: 0}, true
	case LegacyModeHybrid:
		return Weights{Workspace: 0.7, Cursor: 0.3, Window: 0}, true
	default:
		return Weights{}, false
	}
}
