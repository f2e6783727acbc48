// Package wayland implements the platform.Platform contract over a pure-Go
// Wayland client wire protocol — no cgo, no libwayland-client dependency.
// Grounded on the ObjectID/Opcode/MessageBuilder shape of
// other_examples/gogpu-gogpu's wayland compositor bindings, reimplemented
// against the actual Wayland wire format (a connection is a UNIX socket
// carrying fixed 8-byte message headers).
package wayland

import "encoding/binary"

// ObjectID identifies a Wayland protocol object (client- or server-side).
type ObjectID uint32

// Opcode is a per-interface request or event index.
type Opcode uint16

// displayObjectID is wl_display's implicit object id 1, per the Wayland
// wire protocol.
const displayObjectID ObjectID = 1

// header is the 8-byte message header: object id (4 bytes), then opcode
// (2 bytes) + message size including header (2 bytes).
type header struct {
	Object ObjectID
	Opcode Opcode
	Size   uint16
}

func encodeHeader(h header) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Object))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(h.Opcode))
	binary.LittleEndian.PutUint16(buf[6:8], h.Size)
	return buf
}

func decodeHeader(buf []byte) header {
	return header{
		Object: ObjectID(binary.LittleEndian.Uint32(buf[0:4])),
		Opcode: Opcode(binary.LittleEndian.Uint16(buf[4:6])),
		Size:   binary.LittleEndian.Uint16(buf[6:8]),
	}
}

// MessageBuilder accumulates wire-format arguments (Wayland pads every
// argument to a 4-byte boundary) for a single outgoing request.
type MessageBuilder struct {
	args []byte
}

// NewMessageBuilder returns an empty builder.
func NewMessageBuilder() *MessageBuilder { return &MessageBuilder{} }

func (b *MessageBuilder) pad4() {
	for len(b.args)%4 != 0 {
		b.args = append(b.args, 0)
	}
}

// PutUint32 appends a raw uint32 argument.
func (b *MessageBuilder) PutUint32(v uint32) *MessageBuilder {
	b.pad4()
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, v)
	b.args = append(b.args, tmp...)
	return b
}

// PutInt32 appends a signed int32 argument.
func (b *MessageBuilder) PutInt32(v int32) *MessageBuilder { return b.PutUint32(uint32(v)) }

// PutObject appends an object-id argument (0 for "null object").
func (b *MessageBuilder) PutObject(id ObjectID) *MessageBuilder { return b.PutUint32(uint32(id)) }

// PutNewID appends a new_id argument — an object id the server (or in our
// case, client-side allocation table) will associate with a freshly
// created object.
func (b *MessageBuilder) PutNewID(id ObjectID) *MessageBuilder { return b.PutUint32(uint32(id)) }

// PutString appends a length-prefixed, NUL-terminated, 4-byte-padded string.
func (b *MessageBuilder) PutString(s string) *MessageBuilder {
	b.pad4()
	n := uint32(len(s) + 1)
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, n)
	b.args = append(b.args, tmp...)
	b.args = append(b.args, s...)
	b.args = append(b.args, 0)
	b.pad4()
	return b
}

// BuildMessage finalizes the builder into a complete wire message for the
// given object/opcode.
func (b *MessageBuilder) BuildMessage(object ObjectID, opcode Opcode) []byte {
	size := uint16(8 + len(b.args))
	out := encodeHeader(header{Object: object, Opcode: opcode, Size: size})
	return append(out, b.args...)
}

// EventArgReader walks the fixed-layout argument block of a decoded event.
type EventArgReader struct {
	buf []byte
	pos int
}

func NewEventArgReader(buf []byte) *EventArgReader { return &EventArgReader{buf: buf} }

func (r *EventArgReader) align() {
	for r.pos%4 != 0 {
		r.pos++
	}
}

// Uint32 reads the next raw uint32 argument.
func (r *EventArgReader) Uint32() uint32 {
	r.align()
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v
}

// Int32 reads the next signed int32 argument.
func (r *EventArgReader) Int32() int32 { return int32(r.Uint32()) }

// String reads the next length-prefixed string argument.
func (r *EventArgReader) String() string {
	n := int(r.Uint32())
	if n == 0 {
		return ""
	}
	s := string(r.buf[r.pos : r.pos+n-1]) // drop the trailing NUL
	r.pos += n
	r.align()
	return s
}
