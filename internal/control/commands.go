package control

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hyprlax/hyprlax/internal/herr"
)

// LayerInfo is the read-only snapshot of one layer returned by
// Commands.ListLayers, decoupled from internal/layer.Layer so this
// package never needs to import the renderer-facing type directly.
type LayerInfo struct {
	ID           int32
	Path         string
	Opacity      float64
	Scale        float64
	Z            int
	Hidden       bool
	HasTexture   bool
}

// StatusInfo is the daemon/compositor/monitor snapshot returned by the
// status command.
type StatusInfo struct {
	CompositorName string
	MonitorCount   int
	LayerCount     int
	TargetFPS      int
}

// Commands is the daemon-side operation set the control server dispatches
// into. The daemon's bootstrap supplies the concrete implementation
// (backed by the live layer.List/monitor.Registry); this package only
// depends on the interface so it stays testable without a full daemon.
type Commands interface {
	AddLayer(path string, props map[string]string) (id int32, err error)
	RemoveLayer(id int32) error
	ModifyLayer(id int32, prop, val string) error
	ListLayers(filter string) ([]LayerInfo, error)
	ClearLayers() error
	ZOrder(op string, id int32) error
	SetGlobal(prop, val string) error
	GetGlobal(prop string) (string, error)
	Status() (StatusInfo, error)
	Reload() error
	DiagTexinfo(id int32) (string, error)
}

// aliases maps the original ipc_context_t parse_command shorthands onto
// their canonical command names.
var aliases = map[string]string{
	"rm":  "remove",
	"mod": "modify",
	"ls":  "list",
}

func canonicalize(cmd string) string {
	if c, ok := aliases[cmd]; ok {
		return c
	}
	return cmd
}

// Dispatch executes one parsed Request against cmds and renders the
// plain-text (pre-JSON-wrapping) output, letting FormatResponse apply the
// --json envelope afterwards. Pure function over the Commands interface,
// so it is testable without a real socket.
func Dispatch(cmds Commands, req Request) (string, error) {
	switch canonicalize(req.Command) {
	case "add":
		return dispatchAdd(cmds, req.Args)
	case "remove":
		return dispatchRemove(cmds, req.Args)
	case "modify":
		return dispatchModify(cmds, req.Args)
	case "list":
		return dispatchList(cmds, req.Args)
	case "clear":
		if err := cmds.ClearLayers(); err != nil {
			return "", err
		}
		return "All layers cleared", nil
	case "front", "back", "up", "down":
		return dispatchZOrder(cmds, canonicalize(req.Command), req.Args)
	case "set":
		return dispatchSet(cmds, req.Args)
	case "get":
		return dispatchGet(cmds, req.Args)
	case "status":
		return dispatchStatus(cmds)
	case "reload":
		if err := cmds.Reload(); err != nil {
			return "", err
		}
		return "Config reloaded", nil
	case "diag":
		return dispatchDiag(cmds, req.Args)
	default:
		return "", herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("unknown command %q", req.Command))
	}
}

// parseKV accepts both "k=v" and "k v" property-list styles, per spec.md
// §4.7's `add <image> [k=v…|k v…]`.
func parseKV(args []string) (map[string]string, error) {
	props := make(map[string]string)
	i := 0
	for i < len(args) {
		tok := args[i]
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			k, v := tok[:eq], tok[eq+1:]
			if err := ValidateProperty(k, v); err != nil {
				return nil, err
			}
			props[k] = v
			i++
			continue
		}
		if i+1 >= len(args) {
			return nil, herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("property %q has no value", tok))
		}
		if err := ValidateProperty(tok, args[i+1]); err != nil {
			return nil, err
		}
		props[tok] = args[i+1]
		i += 2
	}
	return props, nil
}

func dispatchAdd(cmds Commands, args []string) (string, error) {
	if len(args) < 1 {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "add requires an image path")
	}
	props, err := parseKV(args[1:])
	if err != nil {
		return "", err
	}
	id, err := cmds.AddLayer(args[0], props)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Layer added with ID: %d", id), nil
}

func parseLayerID(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("invalid layer id %q", s))
	}
	return int32(n), nil
}

func dispatchRemove(cmds Commands, args []string) (string, error) {
	if len(args) != 1 {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "remove requires exactly one layer id")
	}
	id, err := parseLayerID(args[0])
	if err != nil {
		return "", err
	}
	if err := cmds.RemoveLayer(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Layer %d removed", id), nil
}

func dispatchModify(cmds Commands, args []string) (string, error) {
	if len(args) != 3 {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "modify requires <id> <prop> <val>")
	}
	id, err := parseLayerID(args[0])
	if err != nil {
		return "", err
	}
	if err := ValidateProperty(args[1], args[2]); err != nil {
		return "", err
	}
	if err := cmds.ModifyLayer(id, args[1], args[2]); err != nil {
		return "", err
	}
	return fmt.Sprintf("Layer %d modified", id), nil
}

func dispatchList(cmds Commands, args []string) (string, error) {
	filter := ""
	for i := 0; i < len(args); i++ {
		if args[i] == "--filter" && i+1 < len(args) {
			filter = args[i+1]
			i++
		}
	}
	layers, err := cmds.ListLayers(filter)
	if err != nil {
		return "", err
	}
	if len(layers) == 0 {
		return "", nil
	}
	lines := make([]string, 0, len(layers))
	for _, l := range layers {
		lines = append(lines, formatLayerLine(l))
	}
	return strings.Join(lines, "\n"), nil
}

func formatLayerLine(l LayerInfo) string {
	return fmt.Sprintf("ID: %d | Path: %s | Scale: %.2f | Z: %d | Opacity: %.2f | Hidden: %v",
		l.ID, l.Path, l.Scale, l.Z, l.Opacity, l.Hidden)
}

func dispatchZOrder(cmds Commands, op string, args []string) (string, error) {
	if len(args) != 1 {
		return "", herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("%s requires exactly one layer id", op))
	}
	id, err := parseLayerID(args[0])
	if err != nil {
		return "", err
	}
	if err := cmds.ZOrder(op, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Layer %d moved %s", id, op), nil
}

// dispatchSet implements `set <prop> <val>`. Per spec.md §9's resolved
// ambiguity, `shift` (percent-of-screen) and `shift_pixels` (absolute) are
// both accepted as distinct property names; this package does not decide
// which one "shift" means — that resolution happens in the Commands
// implementation, which knows whether any monitor is registered.
func dispatchSet(cmds Commands, args []string) (string, error) {
	if len(args) != 2 {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "set requires <prop> <val>")
	}
	if err := ValidateProperty(args[0], args[1]); err != nil {
		return "", err
	}
	if err := cmds.SetGlobal(args[0], args[1]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s set to %s", args[0], args[1]), nil
}

func dispatchGet(cmds Commands, args []string) (string, error) {
	if len(args) != 1 {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "get requires <prop>")
	}
	v, err := cmds.GetGlobal(args[0])
	if err != nil {
		return "", err
	}
	return v, nil
}

func dispatchStatus(cmds Commands) (string, error) {
	s, err := cmds.Status()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Compositor: %s | Monitors: %d | Layers: %d | FPS: %d",
		s.CompositorName, s.MonitorCount, s.LayerCount, s.TargetFPS), nil
}

func dispatchDiag(cmds Commands, args []string) (string, error) {
	if len(args) != 2 || args[0] != "texinfo" {
		return "", herr.WithDetail(herr.ErrInvalidArgs, "diag requires \"texinfo <id>\"")
	}
	id, err := parseLayerID(args[1])
	if err != nil {
		return "", err
	}
	return cmds.DiagTexinfo(id)
}
