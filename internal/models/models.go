package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fleet member roles.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// Tyre lifecycle states.
const (
	TyreStatusInStock = "in_stock"
	TyreStatusFitted  = "fitted"
	TyreStatusWorn    = "worn"
)

// Known vehicle type strings. Anything outside this set is treated as a
// light vehicle by the layout generator; these are the values the UI offers.
var VehicleTypes = []string{
	"car",
	"light_vehicle",
	"van",
	"service_vehicle",
	"truck",
	"bus",
	"trailer",
	"dump_truck",
}

// User is an account that can own fleets and be a member of others.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Fleet is a tenant-owned collection of vehicles, tyres and stock.
type Fleet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FleetMember grants a user role-based access to a fleet. The fleet owner
// is stored as a member with RoleOwner when the fleet is created.
type FleetMember struct {
	FleetID string    `json:"fleet_id"`
	UserID  string    `json:"user_id"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

// Vehicle is a fleet vehicle. Type and AxleCount together drive the wheel
// position layout; they are stored as entered and categorised on read.
type Vehicle struct {
	ID           string    `json:"id"`
	FleetID      string    `json:"fleet_id"`
	Name         string    `json:"name"`
	Registration string    `json:"registration"`
	Type         string    `json:"type"`
	AxleCount    int       `json:"axle_count"`
	Year         int       `json:"year"`
	OdometerKM   float64   `json:"odometer_km"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tyre is a single physical tyre. VehicleID and Position are empty while it
// sits in stock; when fitted, Position holds one of the position enum keys.
// Several tyres on a multi-axle vehicle may legitimately share a position
// key, in which case their relative order is creation order.
type Tyre struct {
	ID           string          `json:"id"`
	FleetID      string          `json:"fleet_id"`
	VehicleID    string          `json:"vehicle_id,omitempty"`
	Position     string          `json:"position,omitempty"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Size         string          `json:"size"`
	TreadDepthMM float64         `json:"tread_depth_mm"`
	Cost         decimal.Decimal `json:"cost"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StockItem is an inventory line of identical unfitted tyres. Fitting from
// stock decrements Quantity and materialises a Tyre record.
type StockItem struct {
	ID        string          `json:"id"`
	FleetID   string          `json:"fleet_id"`
	Brand     string          `json:"brand"`
	Model     string          `json:"model"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	CreatedAt time.Time       `json:"created_at"`
}
