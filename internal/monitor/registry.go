package monitor

// Registry is the ordered monitor collection described in spec.md §4.4:
// lookups by name and by output handle, and a Primary lookup that scans for
// the monitor marked primary and falls back to the first monitor (the
// "head") when none is.
type Registry struct {
	monitors []*Monitor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a newly realized monitor (output-added event), per spec.md
// §3's Monitor lifecycle.
func (r *Registry) Add(m *Monitor) {
	r.monitors = append(r.monitors, m)
}

// Remove deletes the monitor with the given output handle (output-removed
// event). Reports whether a monitor was found and removed.
func (r *Registry) Remove(output OutputHandle) bool {
	for i, m := range r.monitors {
		if m.Output == output {
			r.monitors = append(r.monitors[:i], r.monitors[i+1:]...)
			return true
		}
	}
	return false
}

// ByName returns the monitor with the given stable name, or nil.
func (r *Registry) ByName(name string) *Monitor {
	for _, m := range r.monitors {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ByOutput returns the monitor with the given opaque output handle, or nil.
func (r *Registry) ByOutput(output OutputHandle) *Monitor {
	for _, m := range r.monitors {
		if m.Output == output {
			return m
		}
	}
	return nil
}

// Primary returns the monitor flagged primary=true, or the first monitor in
// registration order ("head") if none is flagged, or nil if the registry is
// empty.
func (r *Registry) Primary() *Monitor {
	if len(r.monitors) == 0 {
		return nil
	}
	for _, m := range r.monitors {
		if m.Primary {
			return m
		}
	}
	return r.monitors[0]
}

// All returns the monitors in registration order. The returned slice is a
// copy; mutating it does not affect the registry.
func (r *Registry) All() []*Monitor {
	out := make([]*Monitor, len(r.monitors))
	copy(out, r.monitors)
	return out
}

// Count returns the number of registered monitors.
func (r *Registry) Count() int { return len(r.monitors) }
