package wayland

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// Event is a decoded incoming message: the object it targets, its event
// opcode (interface-specific), and its raw argument bytes.
type Event struct {
	Object ObjectID
	Opcode Opcode
	Args   []byte
}

// Display owns the client connection to the Wayland server and the
// client-side object-id allocation table. Mirrors the role of
// dominikh-go-libwayland's Display and gogpu-gogpu's Display referenced by
// WlCompositor/WlSurface, reimplemented without cgo.
type Display struct {
	conn   net.Conn
	reader *bufio.Reader

	mu     sync.Mutex
	nextID ObjectID

	registryID ObjectID
}

// socketPath resolves $XDG_RUNTIME_DIR/$WAYLAND_DISPLAY, falling back to
// "wayland-0" when WAYLAND_DISPLAY is unset, matching libwayland's own
// resolution order.
func socketPath() (string, error) {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", fmt.Errorf("wayland: XDG_RUNTIME_DIR not set")
	}
	name := os.Getenv("WAYLAND_DISPLAY")
	if name == "" {
		name = "wayland-0"
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Join(runtimeDir, name), nil
}

// Connect dials the Wayland display socket and allocates object id 1 for
// wl_display (reserved, per protocol) plus 2 for the registry it
// immediately requests.
func Connect() (*Display, error) {
	path, err := socketPath()
	if err != nil {
		return nil, err
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("wayland: connect %s: %w", path, err)
	}
	d := &Display{conn: conn, reader: bufio.NewReader(conn), nextID: 2}
	d.registryID = d.AllocID()
	if err := d.getRegistry(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

// AllocID returns the next unused client-side object id.
func (d *Display) AllocID() ObjectID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	return id
}

// Fd exposes the underlying connection for epoll registration by
// internal/eventloop.
func (d *Display) Fd() (uintptr, bool) {
	type fdConn interface{ File() (*os.File, error) }
	fc, ok := d.conn.(fdConn)
	if !ok {
		return 0, false
	}
	f, err := fc.File()
	if err != nil {
		return 0, false
	}
	return f.Fd(), true
}

// SendMessage writes a fully built wire message.
func (d *Display) SendMessage(msg []byte) error {
	_, err := d.conn.Write(msg)
	return err
}

// wlDisplayGetRegistry is wl_display's single relevant request opcode.
const wlDisplayGetRegistry Opcode = 1

func (d *Display) getRegistry() error {
	b := NewMessageBuilder().PutNewID(d.registryID)
	return d.SendMessage(b.BuildMessage(displayObjectID, wlDisplayGetRegistry))
}

// RegistryID returns the bound wl_registry object id.
func (d *Display) RegistryID() ObjectID { return d.registryID }

// ReadEvent blocks for and decodes the next incoming message.
func (d *Display) ReadEvent() (Event, error) {
	hdr := make([]byte, 8)
	if _, err := readFull(d.reader, hdr); err != nil {
		return Event{}, err
	}
	h := decodeHeader(hdr)
	argLen := int(h.Size) - 8
	args := make([]byte, argLen)
	if argLen > 0 {
		if _, err := readFull(d.reader, args); err != nil {
			return Event{}, err
		}
	}
	return Event{Object: h.Object, Opcode: h.Opcode, Args: args}, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
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

// Disconnect closes the connection.
func (d *Display) Disconnect() error { return d.conn.Close() }
