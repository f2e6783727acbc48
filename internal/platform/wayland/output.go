package wayland

// wl_output event opcodes.
const (
	outputEventGeometry Opcode = 0
	outputEventMode     Opcode = 1
	outputEventDone     Opcode = 2
	outputEventScale    Opcode = 3
	outputEventName     Opcode = 4
)

// outputModeCurrent is the wl_output.mode flags bit marking the currently
// active mode (as opposed to merely a supported one).
const outputModeCurrent = 0x1

// Output accumulates one wl_output object's geometry/mode/scale events
// until a "done" event marks it realized, per spec.md §4.2 "Monitor
// realization": "outputs may become known before their geometry".
type Output struct {
	ID ObjectID

	Name string

	GlobalX, GlobalY int32
	Width, Height    int32
	RefreshMHz       int32 // milli-Hz, per wl_output.mode
	Scale            int32

	pendingWidth, pendingHeight int32
	pendingRefresh              int32

	Done bool
}

// NewOutput returns an Output awaiting its first round of events.
func NewOutput(id ObjectID) *Output {
	return &Output{ID: id, Scale: 1}
}

// HandleEvent feeds one event targeting this output's object id.
// Returns true once Done transitions to true (i.e. on this call the
// output became realized) so the platform adapter knows to register it.
func (o *Output) HandleEvent(ev Event) (justRealized bool) {
	switch ev.Opcode {
	case outputEventGeometry:
		r := NewEventArgReader(ev.Args)
		o.GlobalX = r.Int32()
		o.GlobalY = r.Int32()
		_ = r.Int32() // physical width (mm)
		_ = r.Int32() // physical height (mm)
		_ = r.Int32() // subpixel
		_ = r.String() // make
		_ = r.String() // model
		_ = r.Int32() // transform

	case outputEventMode:
		r := NewEventArgReader(ev.Args)
		flags := r.Uint32()
		w := r.Int32()
		h := r.Int32()
		refresh := r.Int32()
		if flags&outputModeCurrent != 0 {
			o.pendingWidth, o.pendingHeight, o.pendingRefresh = w, h, refresh
		}

	case outputEventScale:
		o.Scale = NewEventArgReader(ev.Args).Int32()

	case outputEventName:
		o.Name = NewEventArgReader(ev.Args).String()

	case outputEventDone:
		wasDone := o.Done
		o.Width, o.Height, o.RefreshMHz = o.pendingWidth, o.pendingHeight, o.pendingRefresh
		o.Done = true
		return !wasDone
	}
	return false
}

// RefreshHz converts the wire's milli-Hz refresh rate to Hz.
func (o *Output) RefreshHz() float64 { return float64(o.RefreshMHz) / 1000.0 }
