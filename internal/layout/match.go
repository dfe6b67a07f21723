package layout

import "fleet-tyre-manager/internal/models"

// MatchTyresToSlots assigns tyres to slots for rendering. The result maps
// every slot ID to the tyre occupying it, nil for empty; leftover returns
// the tyres that found no slot at all.
//
// Direct pass: a slot takes the first not-yet-consumed tyre whose position
// field equals the slot's position key, in tyre input order. With several
// slots sharing a key (collapsed rear axles) this degrades to
// first-come-first-served, which is the only tie-break available since
// there is no persisted ordinal. Tyres without a position are skipped here.
//
// Overflow pass: tyres left over after the direct pass (position mismatch,
// more same-position tyres than slots, or no position at all) are placed
// into remaining empty slots, excluding the spare, tyre order against slot
// order. Best effort so a fitted tyre never silently disappears from the
// diagram when its bookkeeping disagrees with the current axle
// configuration.
//
// Both passes are total: no error path, every tyre lands in at most one
// slot, every slot holds at most one tyre.
func MatchTyresToSlots(slots []Slot, tyres []models.Tyre) (map[string]*models.Tyre, []models.Tyre) {
	assigned := make(map[string]*models.Tyre, len(slots))
	consumed := make([]bool, len(tyres))

	for _, slot := range slots {
		assigned[slot.ID] = nil
		for i := range tyres {
			if consumed[i] || tyres[i].Position == "" || tyres[i].Position != slot.Position {
				continue
			}
			assigned[slot.ID] = &tyres[i]
			consumed[i] = true
			break
		}
	}

	for i := range tyres {
		if consumed[i] {
			continue
		}
		for _, slot := range slots {
			if slot.Position == models.PositionSpare || assigned[slot.ID] != nil {
				continue
			}
			assigned[slot.ID] = &tyres[i]
			consumed[i] = true
			break
		}
	}

	var leftover []models.Tyre
	for i := range tyres {
		if !consumed[i] {
			leftover = append(leftover, tyres[i])
		}
	}
	return assigned, leftover
}
