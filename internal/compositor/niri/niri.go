// Package niri implements the Niri compositor adapter: a spawned child
// process (`niri msg --json event-stream`) whose stdout emits one JSON
// object per line, per spec.md §4.1. Niri's workspace model is
// PER_OUTPUT_NUMERIC, with a 2D encoding derived from row*1000+col when a
// window's scrolling-layout position is reported.
//
// WindowsChanged carries no workspace transition by itself; it only
// refreshes this adapter's column/row cache for every open window.
// WindowFocusChanged is where the actual transition is emitted, looked up
// from that cache for the newly focused window.
package niri

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/hyprlax/hyprlax/internal/compositor"
)

func init() {
	compositor.Register("niri", func() compositor.Adapter { return &Adapter{} })
}

// Adapter implements compositor.Adapter for Niri.
type Adapter struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader

	currentWSID int32

	// windowPos caches the scrolling-layout column/row of every window last
	// reported by WindowsChanged, keyed by window id, grounded on
	// original_source/src/compositor/niri.c:436-586's windows[] table.
	windowPos map[int32][2]int32
}

// Encode2D packs a scrolling-layout (row, col) pair into niri's compatibility
// 1D id, per spec.md §4.1: `row*1000+col`. Used by PollEvents' WindowFocusChanged
// handling so ToWSID stays meaningful even for backends that only look at
// the linear id.
func Encode2D(row, col int32) int32 { return row*1000 + col }

func (a *Adapter) Name() string { return "niri" }

func (a *Adapter) Detect() bool {
	return os.Getenv("NIRI_SOCKET") != ""
}

func (a *Adapter) Init(ctx context.Context, platformHandle any) error { return nil }

// ConnectIPC spawns `niri msg --json event-stream`, discarding stderr, and
// reads stdout line by line, per spec.md §4.1's Niri transport.
func (a *Adapter) ConnectIPC(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "niri", "msg", "--json", "event-stream")
	cmd.Stderr = nil
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("niri: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("niri: spawn event-stream: %w", err)
	}
	a.cmd = cmd
	a.stdout = stdout
	a.reader = bufio.NewReader(stdout)
	return nil
}

// rawEvent captures the handful of niri event-stream shapes spec.md §4.1
// documents: WorkspaceActivated{id}, WindowsChanged{windows}, and
// WindowFocusChanged{id}. Each event is a single-key JSON object naming the
// event type.
type rawWindow struct {
	ID int32 `json:"id"`
	// PosInScrollingLayout is [column, row], or nil when niri reports no
	// position for this window (e.g. it is floating).
	PosInScrollingLayout *[2]int32 `json:"pos_in_scrolling_layout"`
}

type rawEvent struct {
	WorkspaceActivated *struct {
		ID     int32  `json:"id"`
		Output string `json:"output"`
	} `json:"WorkspaceActivated"`
	WindowsChanged *struct {
		Windows []rawWindow `json:"windows"`
	} `json:"WindowsChanged"`
	WindowFocusChanged *struct {
		ID *int32 `json:"id"`
	} `json:"WindowFocusChanged"`
}

// PollEvents reads and decodes one JSON-lines event. WindowsChanged only
// refreshes the column/row cache; WindowFocusChanged looks the focused
// window up in that cache and, if its position is known, emits a 2D
// WorkspaceChange (to_x=col, to_y=row, from_x=from_y=-1, since the prior
// position is a window concept niri never reports, not a workspace one).
func (a *Adapter) PollEvents() (compositor.Event, bool, error) {
	if a.reader == nil {
		return compositor.Event{}, false, nil
	}
	line, err := a.reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return compositor.Event{}, false, nil
	}

	var ev rawEvent
	if err := json.Unmarshal(line, &ev); err != nil {
		return compositor.Event{}, false, nil
	}

	if ev.WindowsChanged != nil {
		pos := make(map[int32][2]int32, len(ev.WindowsChanged.Windows))
		for _, w := range ev.WindowsChanged.Windows {
			if w.PosInScrollingLayout == nil {
				continue
			}
			pos[w.ID] = *w.PosInScrollingLayout
		}
		a.windowPos = pos
		return compositor.Event{}, false, nil
	}

	if ev.WindowFocusChanged != nil {
		if ev.WindowFocusChanged.ID == nil {
			return compositor.Event{}, false, nil
		}
		coords, ok := a.windowPos[*ev.WindowFocusChanged.ID]
		if !ok {
			return compositor.Event{}, false, nil
		}
		col, row := coords[0], coords[1]
		return compositor.Event{
			FromWSID: -1,
			ToWSID:   Encode2D(row, col),
			FromX:    -1,
			FromY:    -1,
			ToX:      col,
			ToY:      row,
			Has2D:    true,
		}, true, nil
	}

	if ev.WorkspaceActivated == nil {
		return compositor.Event{}, false, nil
	}
	if ev.WorkspaceActivated.ID == a.currentWSID {
		return compositor.Event{}, false, nil
	}

	// Niri's focus-follows-window model means the adapter frequently
	// cannot know the true prior position; spec.md §4.1 rule 5 says
	// from_* may be reported as -1 to mean "use the monitor's cached
	// prior context" when genuinely unknown. Here it's always knowable
	// (we track currentWSID across calls), so it is reported.
	out := compositor.Event{
		FromWSID:    a.currentWSID,
		ToWSID:      ev.WorkspaceActivated.ID,
		MonitorName: ev.WorkspaceActivated.Output,
	}
	a.currentWSID = ev.WorkspaceActivated.ID
	return out, true, nil
}

func (a *Adapter) EventFD() int { return -1 }

func (a *Adapter) GetCursorPosition() (x, y float64, ok bool) { return 0, 0, false }

func (a *Adapter) GetActiveWindowGeometry() (compositor.WindowGeometry, bool) {
	return compositor.WindowGeometry{}, false
}

func (a *Adapter) SendCommand(cmd string) ([]byte, error) {
	out, err := exec.Command("niri", "msg", cmd).Output()
	if err != nil {
		return nil, fmt.Errorf("niri: msg %s: %w", cmd, err)
	}
	return out, nil
}

func (a *Adapter) Capabilities() compositor.Capability {
	return compositor.CapWorkspacePerOutputNumeric
}

func (a *Adapter) Close() error {
	if a.stdout != nil {
		a.stdout.Close()
	}
	if a.cmd != nil && a.cmd.Process != nil {
		return a.cmd.Process.Kill()
	}
	return nil
}
