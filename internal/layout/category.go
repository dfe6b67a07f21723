// Package layout derives wheel position layouts for vehicles and matches
// tyre records onto them. Everything here is pure computation over the
// inputs; nothing reads or writes storage.
package layout

// Category is the layout class of a vehicle, derived from its type string
// and axle count. It decides which slot pattern GenerateSlots produces.
type Category int

const (
	CategoryLight Category = iota
	CategoryService
	CategoryHeavy
	CategoryDump
)

func (c Category) String() string {
	switch c {
	case CategoryService:
		return "service"
	case CategoryHeavy:
		return "heavy"
	case CategoryDump:
		return "dump"
	default:
		return "light"
	}
}

// CategoryFor maps a vehicle's type string and axle count to its layout
// category. Unknown type strings fall through to light rather than failing;
// callers wanting strict validation check the type against the known set
// before persisting.
func CategoryFor(vehicleType string, axleCount int) Category {
	switch vehicleType {
	case "dump_truck":
		return CategoryDump
	case "truck", "bus":
		return CategoryHeavy
	case "trailer":
		if axleCount >= 3 {
			return CategoryHeavy
		}
		return CategoryService
	case "service_vehicle", "van":
		return CategoryService
	default:
		return CategoryLight
	}
}
