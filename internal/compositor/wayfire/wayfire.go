// Package wayfire implements the Wayfire compositor adapter: a UNIX socket
// at $XDG_RUNTIME_DIR/wayfire-$WAYLAND_DISPLAY.sock carrying newline-
// delimited JSON event objects. Wayfire's workspace model is SET_BASED,
// with explicit (x,y) grid coordinates reported per event rather than a
// single index, per spec.md §4.1.
package wayfire

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/hyprlax/hyprlax/internal/compositor"
	"github.com/hyprlax/hyprlax/internal/netretry"
)

func init() {
	compositor.Register("wayfire", func() compositor.Adapter { return &Adapter{} })
}

// Adapter implements compositor.Adapter for Wayfire.
type Adapter struct {
	sockPath string

	conn   net.Conn
	reader *bufio.Reader

	currentX, currentY int32
}

func socketPath() (string, bool) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		return "", false
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = "/tmp"
	}
	return filepath.Join(runtimeDir, "wayfire-"+display+".sock"), true
}

func (a *Adapter) Name() string { return "wayfire" }

func (a *Adapter) Detect() bool {
	path, ok := socketPath()
	if !ok {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (a *Adapter) Init(ctx context.Context, platformHandle any) error {
	path, ok := socketPath()
	if !ok {
		return fmt.Errorf("wayfire: WAYLAND_DISPLAY not set")
	}
	a.sockPath = path
	return nil
}

// ConnectIPC dials with Wayfire's documented retry budget (30 attempts ×
// 500ms, per spec.md §4.1).
func (a *Adapter) ConnectIPC(ctx context.Context) error {
	conn, err := netretry.Dial(ctx, a.sockPath, netretry.DefaultWayfireOptions())
	if err != nil {
		return err
	}
	a.conn = conn
	a.reader = bufio.NewReader(conn)
	return nil
}

type wayfireEvent struct {
	Event string `json:"event"`
	X     *int32 `json:"x"`
	Y     *int32 `json:"y"`
}

func (a *Adapter) PollEvents() (compositor.Event, bool, error) {
	if a.reader == nil {
		return compositor.Event{}, false, nil
	}
	line, err := a.reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return compositor.Event{}, false, nil
	}
	var ev wayfireEvent
	if err := json.Unmarshal(line, &ev); err != nil {
		return compositor.Event{}, false, nil
	}
	if ev.Event != "workspace-changed" || ev.X == nil || ev.Y == nil {
		return compositor.Event{}, false, nil
	}
	if *ev.X == a.currentX && *ev.Y == a.currentY {
		return compositor.Event{}, false, nil
	}
	out := compositor.Event{
		FromX: a.currentX, FromY: a.currentY,
		ToX: *ev.X, ToY: *ev.Y,
		Has2D: true,
	}
	a.currentX, a.currentY = *ev.X, *ev.Y
	return out, true, nil
}

func (a *Adapter) EventFD() int { return -1 }

func (a *Adapter) GetCursorPosition() (x, y float64, ok bool) { return 0, 0, false }

func (a *Adapter) GetActiveWindowGeometry() (compositor.WindowGeometry, bool) {
	return compositor.WindowGeometry{}, false
}

func (a *Adapter) SendCommand(cmd string) ([]byte, error) {
	if a.conn == nil {
		return nil, fmt.Errorf("wayfire: not connected")
	}
	req, _ := json.Marshal(map[string]string{"method": cmd})
	if _, err := a.conn.Write(append(req, '\n')); err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *Adapter) Capabilities() compositor.Capability {
	return compositor.CapWorkspaceSetBased
}

func (a *Adapter) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
