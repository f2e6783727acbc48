package wayland

// Layer matches zwlr_layer_shell_v1's layer enum; BACKGROUND is the only
// value this daemon ever requests, per spec.md §4.2.
const LayerBackground int32 = 0

// Anchor bits match zwlr_layer_surface_v1's anchor enum.
const (
	AnchorTop    uint32 = 1
	AnchorBottom uint32 = 2
	AnchorLeft   uint32 = 4
	AnchorRight  uint32 = 8
	AnchorAll    = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)

// KeyboardInteractivityNone matches zwlr_layer_surface_v1's
// keyboard_interactivity enum value "none".
const KeyboardInteractivityNone uint32 = 0

// zwlr_layer_shell_v1 request opcodes.
const layerShellRequestGetLayerSurface Opcode = 0

// wl_compositor request opcodes.
const compositorRequestCreateSurface Opcode = 0
const compositorRequestCreateRegion Opcode = 1

// wl_surface request opcodes.
const (
	surfaceRequestAttach           Opcode = 1
	surfaceRequestDamage            Opcode = 2
	surfaceRequestFrame            Opcode = 3
	surfaceRequestSetOpaqueRegion   Opcode = 4
	surfaceRequestSetInputRegion    Opcode = 5
	surfaceRequestCommit            Opcode = 6
)

// wl_region request opcode.
const regionRequestAdd Opcode = 1

// zwlr_layer_surface_v1 request opcodes.
const (
	layerSurfaceRequestSetSize               Opcode = 0
	layerSurfaceRequestSetAnchor              Opcode = 1
	layerSurfaceRequestSetExclusiveZone       Opcode = 2
	layerSurfaceRequestSetKeyboardInteractivity Opcode = 4
	layerSurfaceRequestAckConfigure           Opcode = 6
)

// zwlr_layer_surface_v1 event opcodes.
const (
	layerSurfaceEventConfigure Opcode = 0
	layerSurfaceEventClosed    Opcode = 1
)

// Surface wraps a wl_surface + zwlr_layer_surface_v1 pair, configured per
// spec.md §4.2: anchored to all four edges, exclusive-zone -1,
// keyboard-interactivity none, and an empty input region so the
// background is click-through (input-transparent).
type Surface struct {
	display *Display

	SurfaceID      ObjectID
	LayerSurfaceID ObjectID

	Width, Height int32
	Configured    bool
}

// NewBackgroundSurface allocates ids and issues the full creation sequence
// for one monitor's wallpaper surface: create_surface, get_layer_surface
// (namespace "hyprlax"), anchor=all, exclusive_zone=-1,
// keyboard_interactivity=none, an empty input region, then commit.
func NewBackgroundSurface(d *Display, compositorID, layerShellID, outputID ObjectID, w, h int32) (*Surface, error) {
	s := &Surface{display: d, Width: w, Height: h}
	s.SurfaceID = d.AllocID()
	s.LayerSurfaceID = d.AllocID()

	if err := d.SendMessage(NewMessageBuilder().
		PutNewID(s.SurfaceID).
		BuildMessage(compositorID, compositorRequestCreateSurface)); err != nil {
		return nil, err
	}

	if err := d.SendMessage(NewMessageBuilder().
		PutNewID(s.LayerSurfaceID).
		PutObject(s.SurfaceID).
		PutObject(outputID).
		PutUint32(uint32(LayerBackground)).
		PutString("hyprlax").
		BuildMessage(layerShellID, layerShellRequestGetLayerSurface)); err != nil {
		return nil, err
	}

	if err := d.SendMessage(NewMessageBuilder().
		PutInt32(w).PutInt32(h).
		BuildMessage(s.LayerSurfaceID, layerSurfaceRequestSetSize)); err != nil {
		return nil, err
	}
	if err := d.SendMessage(NewMessageBuilder().
		PutUint32(AnchorAll).
		BuildMessage(s.LayerSurfaceID, layerSurfaceRequestSetAnchor)); err != nil {
		return nil, err
	}
	if err := d.SendMessage(NewMessageBuilder().
		PutInt32(-1).
		BuildMessage(s.LayerSurfaceID, layerSurfaceRequestSetExclusiveZone)); err != nil {
		return nil, err
	}
	if err := d.SendMessage(NewMessageBuilder().
		PutUint32(KeyboardInteractivityNone).
		BuildMessage(s.LayerSurfaceID, layerSurfaceRequestSetKeyboardInteractivity)); err != nil {
		return nil, err
	}
	if err := s.setEmptyInputRegion(compositorID); err != nil {
		return nil, err
	}
	return s, s.Commit()
}

// setEmptyInputRegion creates a zero-rectangle wl_region and assigns it as
// the surface's input region, making the surface input-transparent —
// pointer events pass through to whatever is beneath it.
func (s *Surface) setEmptyInputRegion(compositorID ObjectID) error {
	regionID := s.display.AllocID()
	if err := s.display.SendMessage(NewMessageBuilder().
		PutNewID(regionID).
		BuildMessage(compositorID, compositorRequestCreateRegion)); err != nil {
		return err
	}
	// No Add request is issued: an empty region (no rectangles) means "no
	// input accepted anywhere on the surface".
	return s.display.SendMessage(NewMessageBuilder().
		PutObject(regionID).
		BuildMessage(s.SurfaceID, surfaceRequestSetInputRegion))
}

// Commit issues wl_surface.commit.
func (s *Surface) Commit() error {
	return s.display.SendMessage(NewMessageBuilder().BuildMessage(s.SurfaceID, surfaceRequestCommit))
}

// AckConfigure acknowledges a layer-surface configure event by serial.
func (s *Surface) AckConfigure(serial uint32) error {
	return s.display.SendMessage(NewMessageBuilder().
		PutUint32(serial).
		BuildMessage(s.LayerSurfaceID, layerSurfaceRequestAckConfigure))
}

// HandleEvent processes a zwlr_layer_surface_v1 event targeting this
// surface. Returns closed=true if the compositor destroyed the surface.
func (s *Surface) HandleEvent(ev Event) (closed bool) {
	switch ev.Opcode {
	case layerSurfaceEventConfigure:
		r := NewEventArgReader(ev.Args)
		serial := r.Uint32()
		s.Width = r.Int32()
		s.Height = r.Int32()
		s.Configured = true
		_ = s.AckConfigure(serial)
	case layerSurfaceEventClosed:
		return true
	}
	return false
}
