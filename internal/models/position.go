package models

// Wheel position keys. This is the closed enum shared between the layout
// generator and tyre persistence: a tyre may only be saved with one of these
// values, and every slot the generator emits carries one of them. Adding a
// key here without teaching the generator about it (or vice versa) breaks
// that contract.
const (
	PositionFrontLeft  = "front_left"
	PositionFrontRight = "front_right"
	PositionRearLeft   = "rear_left"
	PositionRearRight  = "rear_right"
	PositionSpare      = "spare"
	PositionInnerLeft  = "inner_left"
	PositionInnerRight = "inner_right"
	PositionOuterLeft  = "outer_left"
	PositionOuterRight = "outer_right"
)

// AllPositions lists every valid position key in display order.
var AllPositions = []string{
	PositionFrontLeft,
	PositionFrontRight,
	PositionRearLeft,
	PositionRearRight,
	PositionInnerLeft,
	PositionInnerRight,
	PositionOuterLeft,
	PositionOuterRight,
	PositionSpare,
}

// PositionLabels maps a position key to its default display label, for
// contexts where a per-vehicle slot list is not available (e.g. a flat
// tyre table row).
var PositionLabels = map[string]string{
	PositionFrontLeft:  "Front Left",
	PositionFrontRight: "Front Right",
	PositionRearLeft:   "Rear Left",
	PositionRearRight:  "Rear Right",
	PositionInnerLeft:  "Inner Left",
	PositionInnerRight: "Inner Right",
	PositionOuterLeft:  "Outer Left",
	PositionOuterRight: "Outer Right",
	PositionSpare:      "Spare",
}

// IsValidPosition reports whether p is a member of the position enum.
// The empty string (tyre not mounted anywhere in particular) is not valid
// here; callers treat it separately.
func IsValidPosition(p string) bool {
	_, ok := PositionLabels[p]
	return ok
}
