package layout

import (
	"testing"

	"fleet-tyre-manager/internal/models"
)

func tyre(id, position string) models.Tyre {
	return models.Tyre{ID: id, Position: position, Status: models.TyreStatusFitted}
}

func slotByID(t *testing.T, slots []Slot, id string) Slot {
	t.Helper()
	for _, s := range slots {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("no slot %q", id)
	return Slot{}
}

func TestMatchSamePositionUsesInputOrder(t *testing.T) {
	slots := []Slot{
		{ID: "axle3_outer_left", Position: models.PositionRearLeft},
		{ID: "axle4_outer_left", Position: models.PositionRearLeft},
	}
	tyres := []models.Tyre{tyre("A", models.PositionRearLeft), tyre("B", models.PositionRearLeft)}

	assigned, leftover := MatchTyresToSlots(slots, tyres)
	if got := assigned["axle3_outer_left"]; got == nil || got.ID != "A" {
		t.Fatalf("first rear_left slot got %+v, want tyre A", got)
	}
	if got := assigned["axle4_outer_left"]; got == nil || got.ID != "B" {
		t.Fatalf("second rear_left slot got %+v, want tyre B", got)
	}
	if len(leftover) != 0 {
		t.Fatalf("unexpected leftover tyres: %v", leftover)
	}
}

func TestMatchNullPositionOnlyViaOverflow(t *testing.T) {
	slots := GenerateSlots(CategoryLight, 2)
	tyres := []models.Tyre{tyre("loose", "")}

	assigned, leftover := MatchTyresToSlots(slots, tyres)
	if len(leftover) != 0 {
		t.Fatalf("expected overflow to absorb the unpositioned tyre, leftover %v", leftover)
	}
	// Overflow takes the first empty non-spare slot in slot order.
	if got := assigned[models.PositionFrontLeft]; got == nil || got.ID != "loose" {
		t.Fatalf("front_left got %+v, want the unpositioned tyre", got)
	}
	if assigned[models.PositionSpare] != nil {
		t.Fatalf("spare must never be filled by overflow")
	}
}

func TestMatchOverflowNeverUsesSpare(t *testing.T) {
	slots := GenerateSlots(CategoryLight, 2)
	tyres := []models.Tyre{
		tyre("1", models.PositionFrontLeft),
		tyre("2", models.PositionFrontRight),
		tyre("3", models.PositionRearLeft),
		tyre("4", models.PositionRearRight),
		tyre("5", ""), // only the spare slot remains empty
	}

	assigned, leftover := MatchTyresToSlots(slots, tyres)
	if assigned[models.PositionSpare] != nil {
		t.Fatalf("spare slot filled by overflow")
	}
	if len(leftover) != 1 || leftover[0].ID != "5" {
		t.Fatalf("leftover = %v, want tyre 5", leftover)
	}
}

func TestMatchSpareByDirectPass(t *testing.T) {
	slots := GenerateSlots(CategoryLight, 2)
	tyres := []models.Tyre{tyre("s", models.PositionSpare)}

	assigned, _ := MatchTyresToSlots(slots, tyres)
	if got := assigned[models.PositionSpare]; got == nil || got.ID != "s" {
		t.Fatalf("spare slot got %+v, want the spare-positioned tyre", got)
	}
}

func TestMatchMismatchedPositionOverflows(t *testing.T) {
	// A tyre still carrying inner_left after the vehicle was reconfigured to
	// a light layout: no slot matches its key, overflow must keep it visible.
	slots := GenerateSlots(CategoryLight, 2)
	tyres := []models.Tyre{
		tyre("fl", models.PositionFrontLeft),
		tyre("stale", models.PositionInnerLeft),
	}

	assigned, leftover := MatchTyresToSlots(slots, tyres)
	if len(leftover) != 0 {
		t.Fatalf("leftover %v, want stale tyre placed by overflow", leftover)
	}
	if got := assigned[models.PositionFrontRight]; got == nil || got.ID != "stale" {
		t.Fatalf("front_right got %+v, want the stale tyre (first empty non-spare slot)", got)
	}
}

func TestMatchNoTyreAppearsTwice(t *testing.T) {
	slots := GenerateSlots(CategoryHeavy, 4)
	tyres := []models.Tyre{
		tyre("a", models.PositionRearLeft),
		tyre("b", models.PositionRearLeft),
		tyre("c", models.PositionRearLeft),
		tyre("d", ""),
		tyre("e", models.PositionInnerLeft),
	}

	assigned, leftover := MatchTyresToSlots(slots, tyres)

	counts := make(map[string]int)
	filled := 0
	for _, tr := range assigned {
		if tr != nil {
			counts[tr.ID]++
			filled++
		}
	}
	for id, n := range counts {
		if n != 1 {
			t.Fatalf("tyre %s assigned to %d slots", id, n)
		}
	}
	if filled+len(leftover) != len(tyres) {
		t.Fatalf("filled %d + leftover %d != %d tyres", filled, len(leftover), len(tyres))
	}
	if len(assigned) != len(slots) {
		t.Fatalf("result covers %d slots, want %d", len(assigned), len(slots))
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	assigned, leftover := MatchTyresToSlots(nil, nil)
	if len(assigned) != 0 || len(leftover) != 0 {
		t.Fatalf("expected empty result, got %v / %v", assigned, leftover)
	}

	slots := GenerateSlots(CategoryService, 2)
	assigned, leftover = MatchTyresToSlots(slots, nil)
	if len(leftover) != 0 {
		t.Fatalf("unexpected leftover %v", leftover)
	}
	for id, tr := range assigned {
		if tr != nil {
			t.Fatalf("slot %s filled with no tyres supplied", id)
		}
	}
}

func TestMatchThreeAxleTruckEndToEnd(t *testing.T) {
	category := CategoryFor("truck", 3)
	if category != CategoryHeavy {
		t.Fatalf("truck categorised as %s", category)
	}
	slots := GenerateSlots(category, 3)
	if len(slots) != 11 {
		t.Fatalf("truck/3: %d slots, want 11", len(slots))
	}

	// Ten tyres covering every non-spare slot: four on the outer/inner keys
	// of axle two, four collapsed rear keys on axle three, two steer.
	tyres := []models.Tyre{
		tyre("t1", models.PositionFrontLeft),
		tyre("t2", models.PositionFrontRight),
		tyre("t3", models.PositionOuterLeft),
		tyre("t4", models.PositionInnerLeft),
		tyre("t5", models.PositionInnerRight),
		tyre("t6", models.PositionOuterRight),
		tyre("t7", models.PositionRearLeft),
		tyre("t8", models.PositionRearLeft),
		tyre("t9", models.PositionRearRight),
		tyre("t10", models.PositionRearRight),
	}

	assigned, leftover := MatchTyresToSlots(slots, tyres)
	if len(leftover) != 0 {
		t.Fatalf("leftover %v, want every tyre placed", leftover)
	}
	filled := 0
	for _, tr := range assigned {
		if tr != nil {
			filled++
		}
	}
	if filled != 10 {
		t.Fatalf("filled %d slots, want 10", filled)
	}
	if assigned[slotByID(t, slots, models.PositionSpare).ID] != nil {
		t.Fatalf("spare slot should stay empty")
	}
	// Collapsed rear keys resolve by input order.
	if got := assigned["axle3_outer_left"]; got == nil || got.ID != "t7" {
		t.Fatalf("axle3 left outer got %+v, want t7", got)
	}
	if got := assigned["axle3_inner_left"]; got == nil || got.ID != "t8" {
		t.Fatalf("axle3 left inner got %+v, want t8", got)
	}
}
