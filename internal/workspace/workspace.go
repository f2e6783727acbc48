// Package workspace implements the compositor-agnostic workspace context
// tagged union and the offset-computation rules in spec.md §3 and §4.4.
package workspace

// Kind discriminates the workspace-context tagged union.
type Kind int

const (
	GlobalNumeric Kind = iota
	PerOutputNumeric
	TagBased
	SetBased
)

// Policy selects how a multi-tag TAG_BASED bitmask reduces to one index.
type Policy int

const (
	PolicyHighest Policy = iota
	PolicyLowest
	PolicyFirstSet
	PolicyNoParallax
)

// Context is the tagged union described in spec.md §3 "Workspace context".
// Only the fields relevant to Kind are meaningful; callers should not read
// fields outside the active variant.
type Context struct {
	Kind Kind

	// GLOBAL_NUMERIC / PER_OUTPUT_NUMERIC
	ID int32

	// GridSet marks a PER_OUTPUT_NUMERIC or SET_BASED context carrying an
	// explicit (GridX, GridY) pair reported directly by the compositor
	// (niri's scrolling-layout column/row, wayfire's workspace grid x/y),
	// rather than one derived from ID/WorkspaceID. When set, GridX/GridY
	// take over the offset and equality computation for their Kind instead
	// of ID/WorkspaceID's single-axis/grid-decode behavior.
	GridSet      bool
	GridX, GridY int32

	// TAG_BASED
	VisibleTags uint32
	FocusedTag  uint32

	// SET_BASED
	SetID       int32
	WorkspaceID int32
}

// Offset is the pixel delta produced by a workspace transition.
type Offset struct {
	X, Y float64
}

// highestBit returns the 0-based index of the highest set bit in v, or -1 if
// v is zero.
func highestBit(v uint32) int {
	if v == 0 {
		return -1
	}
	idx := -1
	for v != 0 {
		idx++
		v >>= 1
	}
	return idx
}

// lowestBit returns the 0-based index of the lowest set bit in v, or -1 if
// v is zero.
func lowestBit(v uint32) int {
	if v == 0 {
		return -1
	}
	idx := 0
	for v&1 == 0 {
		v >>= 1
		idx++
	}
	return idx
}

// reduceTag collapses a TAG_BASED context to a single numeric index under
// policy. PolicyNoParallax always yields 0 (the caller then sees a zero
// delta once both from/to reduce to the same value) — see spec.md §9: the
// River source uses `tag &= tag-1` for its "highest" policy, which actually
// finds the *lowest* set bit. This implementation follows the stated intent
// (true highest bit), not the source's bug; see the regression tests in
// river_tag_policy_test.go.
func reduceTag(ctx Context, policy Policy) int {
	switch policy {
	case PolicyHighest:
		if idx := highestBit(ctx.VisibleTags); idx >= 0 {
			return idx
		}
		return int(ctx.FocusedTag)
	case PolicyLowest:
		if idx := lowestBit(ctx.VisibleTags); idx >= 0 {
			return idx
		}
		return int(ctx.FocusedTag)
	case PolicyFirstSet:
		if idx := lowestBit(ctx.VisibleTags); idx >= 0 {
			return idx
		}
		return int(ctx.FocusedTag)
	case PolicyNoParallax:
		return 0
	default:
		return 0
	}
}

// decodeGrid maps a SET_BASED workspace_id to a 2D grid coordinate using the
// default 3-column grid, per spec.md §4.4.
func decodeGrid(id int32) (x, y int32) {
	return id % 3, id / 3
}

// ComputeOffset implements spec.md §4.4 "Workspace offset computation".
// shiftPixels scales numeric-family deltas; policy only applies to
// TAG_BASED transitions. Both contexts must carry the same Kind except that
// a zero-value "unknown" from-context (Kind defaulting to GlobalNumeric with
// ID 0) is treated as the natural starting point for numeric variants.
func ComputeOffset(from, to Context, shiftPixels float64, policy Policy) Offset {
	switch to.Kind {
	case GlobalNumeric, PerOutputNumeric:
		if to.GridSet || from.GridSet {
			return Offset{
				X: shiftPixels * float64(to.GridX-from.GridX),
				Y: shiftPixels * float64(to.GridY-from.GridY),
			}
		}
		return Offset{X: shiftPixels * float64(to.ID-from.ID), Y: 0}

	case TagBased:
		fromIdx := reduceTag(from, policy)
		toIdx := reduceTag(to, policy)
		return Offset{X: shiftPixels * float64(toIdx-fromIdx), Y: 0}

	case SetBased:
		if to.SetID != from.SetID {
			return Offset{}
		}
		if to.GridSet || from.GridSet {
			return Offset{
				X: shiftPixels * float64(to.GridX-from.GridX),
				Y: shiftPixels * float64(to.GridY-from.GridY),
			}
		}
		var fx, fy, tx, ty int32
		fx, fy = decodeGrid(from.WorkspaceID)
		tx, ty = decodeGrid(to.WorkspaceID)
		return Offset{
			X: shiftPixels * float64(tx-fx),
			Y: shiftPixels * float64(ty-fy),
		}

	default:
		return Offset{}
	}
}

// Equal reports whether two contexts describe the same workspace position,
// used by handle_context_change's no-op guard (spec.md §4.4).
func (c Context) Equal(o Context) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case GlobalNumeric, PerOutputNumeric:
		if c.GridSet || o.GridSet {
			return c.GridSet == o.GridSet && c.GridX == o.GridX && c.GridY == o.GridY
		}
		return c.ID == o.ID
	case TagBased:
		return c.VisibleTags == o.VisibleTags && c.FocusedTag == o.FocusedTag
	case SetBased:
		if c.GridSet || o.GridSet {
			return c.GridSet == o.GridSet && c.SetID == o.SetID && c.GridX == o.GridX && c.GridY == o.GridY
		}
		return c.SetID == o.SetID && c.WorkspaceID == o.WorkspaceID
	default:
		return true
	}
}
