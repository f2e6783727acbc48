package layer

import "sort"

// List is a monitor's ordered collection of layers. IDs are assigned
// monotonically and never reused for the lifetime of the process, per
// spec.md §3's "layer ids are stable for the process lifetime" invariant.
type List struct {
	layers  []*Layer
	byID    map[int32]int // id -> index into layers (kept in sync by resync)
	nextID  int32
	seq     uint64
}

// NewList returns an empty layer list.
func NewList() *List {
	return &List{byID: make(map[int32]int)}
}

// Add appends a new layer with a freshly allocated id and returns it.
func (l *List) Add(imagePath string) *Layer {
	l.nextID++
	ly := New(l.nextID, imagePath)
	l.seq++
	ly.insertSeq = l.seq
	l.layers = append(l.layers, ly)
	l.resync()
	return ly
}

// Remove deletes the layer with the given id. Reports whether a layer was
// found and removed.
func (l *List) Remove(id int32) bool {
	idx, ok := l.byID[id]
	if !ok {
		return false
	}
	l.layers = append(l.layers[:idx], l.layers[idx+1:]...)
	l.resync()
	return true
}

// Find returns the layer with the given id, or nil if absent.
func (l *List) Find(id int32) *Layer {
	idx, ok := l.byID[id]
	if !ok {
		return nil
	}
	return l.layers[idx]
}

// Count returns the number of layers currently in the list.
func (l *List) Count() int { return len(l.layers) }

// Ordered returns layers sorted by Z ascending, ties broken by insertion
// order — a stable view regardless of map/slice iteration order, per
// spec.md §3's z-sort invariant ("re-sort must be stable").
func (l *List) Ordered() []*Layer {
	out := make([]*Layer, len(l.layers))
	copy(out, l.layers)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].insertSeq < out[j].insertSeq
	})
	return out
}

// SetZ updates a layer's z-order. The caller should re-fetch Ordered()
// afterwards; SetZ itself does not re-sort the backing slice.
func (l *List) SetZ(id int32, z int) bool {
	ly := l.Find(id)
	if ly == nil {
		return false
	}
	ly.Z = z
	return true
}

// resync rebuilds the id->index map after a mutation to layers.
func (l *List) resync() {
	for id := range l.byID {
		delete(l.byID, id)
	}
	for i, ly := range l.layers {
		l.byID[ly.ID] = i
	}
}
