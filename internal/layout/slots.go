package layout

import (
	"fmt"

	"fleet-tyre-manager/internal/models"
)

// Slot is one mountable wheel location on a vehicle. Slots are generated
// fresh per request and never persisted; a tyre's position field is the only
// durable link back to one. ID is unique within a generated set, Position is
// not: on multi-axle vehicles several slots share a position key.
type Slot struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Position string `json:"position"`
	IsDual   bool   `json:"is_dual"`
}

// GenerateSlots builds the ordered slot list for a vehicle category and axle
// count. It is deterministic and total for axleCount >= 1: degenerate inputs
// such as a one-axle heavy vehicle produce just the front pair and spare.
func GenerateSlots(category Category, axleCount int) []Slot {
	switch category {
	case CategoryService:
		return serviceSlots()
	case CategoryHeavy:
		return heavySlots(axleCount)
	case CategoryDump:
		return dumpSlots(axleCount)
	default:
		return lightSlots()
	}
}

func frontPair() []Slot {
	return []Slot{
		{ID: models.PositionFrontLeft, Label: "Front Left", Position: models.PositionFrontLeft},
		{ID: models.PositionFrontRight, Label: "Front Right", Position: models.PositionFrontRight},
	}
}

func spareSlot() Slot {
	return Slot{ID: models.PositionSpare, Label: "Spare", Position: models.PositionSpare}
}

// lightSlots is the fixed four-corner layout plus spare, independent of
// axle count.
func lightSlots() []Slot {
	slots := frontPair()
	slots = append(slots,
		Slot{ID: models.PositionRearLeft, Label: "Rear Left", Position: models.PositionRearLeft},
		Slot{ID: models.PositionRearRight, Label: "Rear Right", Position: models.PositionRearRight},
		spareSlot(),
	)
	return slots
}

// serviceSlots is a single steer axle plus one dual rear axle, fixed at
// seven slots.
func serviceSlots() []Slot {
	slots := frontPair()
	slots = append(slots,
		Slot{ID: models.PositionOuterLeft, Label: "Rear Left Outer", Position: models.PositionOuterLeft, IsDual: true},
		Slot{ID: models.PositionInnerLeft, Label: "Rear Left Inner", Position: models.PositionInnerLeft, IsDual: true},
		Slot{ID: models.PositionInnerRight, Label: "Rear Right Inner", Position: models.PositionInnerRight, IsDual: true},
		Slot{ID: models.PositionOuterRight, Label: "Rear Right Outer", Position: models.PositionOuterRight, IsDual: true},
		spareSlot(),
	)
	return slots
}

// heavySlots lays out a steer axle (never dual) followed by dual rear axles.
// The first rear axle keeps the outer/inner position keys; every axle after
// it collapses onto rear_left/rear_right, so distinct physical axles share a
// logical key and the matcher falls back to input-order tie-breaking there.
func heavySlots(axleCount int) []Slot {
	slots := frontPair()
	for a := 1; a < axleCount; a++ {
		slots = append(slots, dualGroup(a, rearLabelPrefix(a, axleCount), a > 1)...)
	}
	slots = append(slots, spareSlot())
	return slots
}

// dumpSlots is like heavySlots except that three-and-more-axle dump trucks
// get a non-dual second axle, and dual axles always keep the outer/inner
// position keys.
func dumpSlots(axleCount int) []Slot {
	slots := frontPair()
	start := 1
	if axleCount >= 3 {
		slots = append(slots,
			Slot{ID: "axle2_left", Label: "Axle 2 Left", Position: models.PositionRearLeft},
			Slot{ID: "axle2_right", Label: "Axle 2 Right", Position: models.PositionRearRight},
		)
		start = 2
	}
	for a := start; a < axleCount; a++ {
		slots = append(slots, dualGroup(a, fmt.Sprintf("Axle %d", a+1), false)...)
	}
	slots = append(slots, spareSlot())
	return slots
}

// rearLabelPrefix names a heavy rear axle: "Rear" when there is exactly one,
// "Axle N" once there are several to tell apart.
func rearLabelPrefix(axle, axleCount int) string {
	if axleCount > 2 {
		return fmt.Sprintf("Axle %d", axle+1)
	}
	return "Rear"
}

// dualGroup emits the four slots of one dual-wheel axle, outer-left to
// outer-right. collapsed switches the position keys from outer/inner to
// rear_left/rear_right for heavy axles past the first rear axle.
func dualGroup(axle int, labelPrefix string, collapsed bool) []Slot {
	positions := [4]string{
		models.PositionOuterLeft,
		models.PositionInnerLeft,
		models.PositionInnerRight,
		models.PositionOuterRight,
	}
	if collapsed {
		positions = [4]string{
			models.PositionRearLeft,
			models.PositionRearLeft,
			models.PositionRearRight,
			models.PositionRearRight,
		}
	}
	labels := [4]string{"Left Outer", "Left Inner", "Right Inner", "Right Outer"}
	ids := [4]string{"outer_left", "inner_left", "inner_right", "outer_right"}

	group := make([]Slot, 0, 4)
	for i := 0; i < 4; i++ {
		group = append(group, Slot{
			ID:       fmt.Sprintf("axle%d_%s", axle+1, ids[i]),
			Label:    fmt.Sprintf("%s %s", labelPrefix, labels[i]),
			Position: positions[i],
			IsDual:   true,
		})
	}
	return group
}

// PositionOptions reduces a slot list to the {value,label} pairs a position
// dropdown needs: one option per distinct position key, first occurrence
// wins, order preserved. Labels come from the shared lookup so a key reads
// the same here and in flat tyre tables.
func PositionOptions(slots []Slot) []Option {
	seen := make(map[string]bool, len(slots))
	options := make([]Option, 0, len(slots))
	for _, s := range slots {
		if seen[s.Position] {
			continue
		}
		seen[s.Position] = true
		label := models.PositionLabels[s.Position]
		if label == "" {
			label = s.Label
		}
		options = append(options, Option{Value: s.Position, Label: label})
	}
	return options
}

// Option is a selectable position for form fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
