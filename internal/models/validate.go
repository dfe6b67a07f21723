package models

import "strings"

// ValidateVehicle checks a vehicle before it is saved. Returns a list of
// human-readable problems, empty when the vehicle is acceptable.
func ValidateVehicle(v *Vehicle) []string {
	var errors []string

	if strings.TrimSpace(v.Name) == "" {
		errors = append(errors, "name is required")
	}
	if strings.TrimSpace(v.Type) == "" {
		errors = append(errors, "type is required")
	}
	if v.AxleCount < 1 || v.AxleCount > 10 {
		errors = append(errors, "axle_count must be between 1 and 10")
	}
	if v.Year < 1990 || v.Year > 2030 {
		errors = append(errors, "year must be between 1990 and 2030")
	}
	if v.OdometerKM < 0 {
		errors = append(errors, "odometer_km cannot be negative")
	}

	return errors
}

// ValidateTyre checks a tyre before it is saved. An empty position is fine
// (tyre not mounted); a non-empty one must belong to the position enum.
func ValidateTyre(t *Tyre) []string {
	var errors []string

	if strings.TrimSpace(t.Brand) == "" {
		errors = append(errors, "brand is required")
	}
	if t.Position != "" && !IsValidPosition(t.Position) {
		errors = append(errors, "position must be one of the known position keys")
	}
	if t.Position != "" && t.VehicleID == "" {
		errors = append(errors, "position requires a vehicle_id")
	}
	if t.TreadDepthMM < 0 {
		errors = append(errors, "tread_depth_mm cannot be negative")
	}
	if t.Cost.IsNegative() {
		errors = append(errors, "cost cannot be negative")
	}
	switch t.Status {
	case TyreStatusInStock, TyreStatusFitted, TyreStatusWorn:
	default:
		errors = append(errors, "status must be in_stock, fitted or worn")
	}

	return errors
}

// ValidateStockItem checks an inventory line.
func ValidateStockItem(s *StockItem) []string {
	var errors []string

	if strings.TrimSpace(s.Brand) == "" {
		errors = append(errors, "brand is required")
	}
	if s.Quantity < 0 {
		errors = append(errors, "quantity cannot be negative")
	}
	if s.UnitCost.IsNegative() {
		errors = append(errors, "unit_cost cannot be negative")
	}

	return errors
}

// ValidRole reports whether r is a grantable member role.
func ValidRole(r string) bool {
	switch r {
	case RoleOwner, RoleManager, RoleViewer:
		return true
	}
	return false
}
