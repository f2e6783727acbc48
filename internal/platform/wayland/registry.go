package wayland

// wl_registry event opcodes.
const (
	registryEventGlobal       Opcode = 0
	registryEventGlobalRemove Opcode = 1
)

// wl_registry request opcodes.
const registryRequestBind Opcode = 0

// Global describes one advertised protocol object, decoded from a
// wl_registry::global event.
type Global struct {
	Name      uint32 // registry-assigned numeric name, used to bind
	Interface string
	Version   uint32
}

// DecodeGlobal decodes a wl_registry::global event's arguments.
func DecodeGlobal(args []byte) Global {
	r := NewEventArgReader(args)
	return Global{
		Name:      r.Uint32(),
		Interface: r.String(),
		Version:   r.Uint32(),
	}
}

// DecodeGlobalRemove decodes a wl_registry::global_remove event's single
// "name" argument.
func DecodeGlobalRemove(args []byte) uint32 {
	return NewEventArgReader(args).Uint32()
}

// Bind requests that the server associate newID with the global
// identified by name/interface/version, per wl_registry::bind.
func (d *Display) Bind(name uint32, iface string, version uint32, newID ObjectID) error {
	b := NewMessageBuilder().
		PutUint32(name).
		PutString(iface).
		PutUint32(version).
		PutNewID(newID)
	return d.SendMessage(b.BuildMessage(d.registryID, registryRequestBind))
}

// Registry accumulates the globals seen so far, keyed by interface name, and
// binds them by that name. An interface advertised more than once (such as
// one wl_output per monitor) keeps only its most recently seen global.
type Registry struct {
	display *Display
	globals map[string]Global // interface name -> most recently seen global
}

// NewRegistry wraps a connected Display for global tracking.
func NewRegistry(d *Display) *Registry {
	return &Registry{display: d, globals: make(map[string]Global)}
}

// HandleEvent feeds one wl_registry event into the tracker. Non-registry
// events are ignored (callers route by Object before calling this).
func (r *Registry) HandleEvent(ev Event) {
	switch ev.Opcode {
	case registryEventGlobal:
		g := DecodeGlobal(ev.Args)
		r.globals[g.Interface] = g
	case registryEventGlobalRemove:
		name := DecodeGlobalRemove(ev.Args)
		for iface, g := range r.globals {
			if g.Name == name {
				delete(r.globals, iface)
			}
		}
	}
}

// BindInterface binds the given interface name at its advertised version,
// returning the newly allocated client-side object id. Reports ok=false if
// the interface was never advertised.
func (r *Registry) BindInterface(iface string, newID ObjectID) (ok bool, err error) {
	g, found := r.globals[iface]
	if !found {
		return false, nil
	}
	if err := r.display.Bind(g.Name, iface, g.Version, newID); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether an interface has been advertised.
func (r *Registry) Has(iface string) bool {
	_, ok := r.globals[iface]
	return ok
}
