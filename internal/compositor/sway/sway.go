// Package sway implements the Sway compositor adapter over the i3/sway IPC
// protocol: a length-prefixed binary frame format carrying JSON payloads,
// per spec.md §4.1.
package sway

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hyprlax/hyprlax/internal/compositor"
)

func init() {
	compositor.Register("sway", func() compositor.Adapter { return &Adapter{} })
}

const (
	magic = "i3-ipc"

	msgTypeRunCommand = 0
	msgTypeSubscribe  = 2
	msgTypeEventMask  = 0x80000000

	eventWorkspace = msgTypeEventMask | 0
	eventWindow    = msgTypeEventMask | 3
)

// Adapter implements compositor.Adapter for Sway.
type Adapter struct {
	sockPath string

	cmdConn   net.Conn
	eventConn net.Conn
	eventBuf  *bufio.Reader

	currentWSID int32
}

func socketPath() (string, bool) {
	if p := os.Getenv("SWAYSOCK"); p != "" {
		return p, true
	}
	if p := os.Getenv("I3SOCK"); p != "" {
		return p, true
	}
	return "", false
}

func (a *Adapter) Name() string { return "sway" }

func (a *Adapter) Detect() bool {
	if _, ok := socketPath(); ok {
		return true
	}
	return os.Getenv("XDG_CURRENT_DESKTOP") == "sway"
}

func (a *Adapter) Init(ctx context.Context, platformHandle any) error {
	path, ok := socketPath()
	if !ok {
		// Last resort: ask `sway` itself for its socket path, matching the
		// i3/sway convention of `sway --get-socketpath`.
		out, err := exec.CommandContext(ctx, "sway", "--get-socketpath").Output()
		if err != nil {
			return fmt.Errorf("sway: no SWAYSOCK/I3SOCK and --get-socketpath failed: %w", err)
		}
		path = strings.TrimSpace(string(out))
	}
	a.sockPath = path
	return nil
}

func (a *Adapter) ConnectIPC(ctx context.Context) error {
	cmdConn, err := net.DialTimeout("unix", a.sockPath, 5*time.Second)
	if err != nil {
		return fmt.Errorf("sway: command socket dial: %w", err)
	}
	a.cmdConn = cmdConn

	eventConn, err := net.DialTimeout("unix", a.sockPath, 5*time.Second)
	if err != nil {
		cmdConn.Close()
		return fmt.Errorf("sway: event socket dial: %w", err)
	}
	a.eventConn = eventConn
	a.eventBuf = bufio.NewReader(eventConn)

	sub, _ := json.Marshal([]string{"workspace", "window"})
	if err := writeFrame(eventConn, msgTypeSubscribe, sub); err != nil {
		return fmt.Errorf("sway: subscribe: %w", err)
	}
	// Drain the subscribe ack.
	if _, _, err := readFrame(a.eventBuf); err != nil {
		return fmt.Errorf("sway: subscribe ack: %w", err)
	}
	return nil
}

func writeFrame(w io.Writer, msgType uint32, payload []byte) error {
	header := make([]byte, len(magic)+8)
	copy(header, magic)
	binary.LittleEndian.PutUint32(header[len(magic):], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[len(magic)+4:], msgType)
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r *bufio.Reader) (msgType uint32, payload []byte, err error) {
	header := make([]byte, len(magic)+8)
	if _, err := readFullCompat(r, header); err != nil {
		return 0, nil, err
	}
	if string(header[:len(magic)]) != magic {
		return 0, nil, fmt.Errorf("sway: bad magic in ipc frame")
	}
	length := binary.LittleEndian.Uint32(header[len(magic):])
	msgType = binary.LittleEndian.Uint32(header[len(magic)+4:])
	payload = make([]byte, length)
	if length > 0 {
		if _, err := readFullCompat(r, payload); err != nil {
			return 0, nil, err
		}
	}
	return msgType, payload, nil
}

func readFullCompat(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type wsEvent struct {
	Change  string `json:"change"`
	Current *struct {
		Num    int32  `json:"num"`
		Output string `json:"output"`
	} `json:"current"`
}

func (a *Adapter) PollEvents() (compositor.Event, bool, error) {
	if a.eventBuf == nil {
		return compositor.Event{}, false, nil
	}
	msgType, payload, err := readFrame(a.eventBuf)
	if err != nil {
		return compositor.Event{}, false, nil
	}
	if msgType != eventWorkspace {
		return compositor.Event{}, false, nil
	}
	var ev wsEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return compositor.Event{}, false, nil
	}
	if ev.Change != "focus" || ev.Current == nil {
		return compositor.Event{}, false, nil
	}
	if ev.Current.Num == a.currentWSID {
		return compositor.Event{}, false, nil
	}
	out := compositor.Event{
		FromWSID:    a.currentWSID,
		ToWSID:      ev.Current.Num,
		MonitorName: ev.Current.Output,
	}
	a.currentWSID = ev.Current.Num
	return out, true, nil
}

func (a *Adapter) EventFD() int { return -1 }

func (a *Adapter) GetCursorPosition() (x, y float64, ok bool) { return 0, 0, false }

func (a *Adapter) GetActiveWindowGeometry() (compositor.WindowGeometry, bool) {
	return compositor.WindowGeometry{}, false
}

func (a *Adapter) SendCommand(cmd string) ([]byte, error) {
	if a.cmdConn == nil {
		return nil, fmt.Errorf("sway: not connected")
	}
	if err := writeFrame(a.cmdConn, msgTypeRunCommand, []byte(cmd)); err != nil {
		return nil, err
	}
	_, payload, err := readFrame(bufio.NewReader(a.cmdConn))
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (a *Adapter) Capabilities() compositor.Capability {
	return compositor.CapWorkspaceGlobalNumeric
}

func (a *Adapter) Close() error {
	if a.eventConn != nil {
		a.eventConn.Close()
	}
	if a.cmdConn != nil {
		a.cmdConn.Close()
	}
	return nil
}
