package workspace

import "testing"

// TestTagPolicyHighestPicksTrueHighestBit is a regression test for spec.md
// §9: the original River backend derives "highest" via `tag &= tag-1` in a
// loop, which isolates the *lowest* set bit on each iteration, not the
// highest. This implementation follows the documented intent instead:
// PolicyHighest must resolve to the true highest set bit.
func TestTagPolicyHighestPicksTrueHighestBit(t *testing.T) {
	// bits 1 and 3 set (0b1010): lowest bit index is 1, highest is 3.
	ctx := Context{Kind: TagBased, VisibleTags: 0b1010}
	if got := reduceTag(ctx, PolicyHighest); got != 3 {
		t.Fatalf("PolicyHighest should resolve to the highest set bit (3), got %d", got)
	}
	if got := reduceTag(ctx, PolicyLowest); got != 1 {
		t.Fatalf("PolicyLowest should resolve to the lowest set bit (1), got %d", got)
	}
}

// TestTagPolicyHighestPinsBit31 pins the highest-possible-bit case so a
// future accidental reintroduction of the `tag &= tag-1` shortcut (which
// would report bit 0 here) fails loudly.
func TestTagPolicyHighestPinsBit31(t *testing.T) {
	ctx := Context{Kind: TagBased, VisibleTags: (1 << 31) | 1}
	if got := reduceTag(ctx, PolicyHighest); got != 31 {
		t.Fatalf("PolicyHighest must pin bit 31 as highest, got %d", got)
	}
}
