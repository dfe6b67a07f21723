package db

import (
	"fmt"

	"fleet-tyre-manager/internal/models"

	"github.com/shopspring/decimal"
)

// CostSummary aggregates tyre spend for a fleet. Amounts are exact
// decimals; sums happen here rather than in SQL because costs are stored
// as text to avoid float drift.
type CostSummary struct {
	FleetID        string          `json:"fleet_id"`
	TotalSpend     decimal.Decimal `json:"total_spend"`
	FittedSpend    decimal.Decimal `json:"fitted_spend"`
	InStockSpend   decimal.Decimal `json:"in_stock_spend"`
	WornSpend      decimal.Decimal `json:"worn_spend"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	PerVehicle     []VehicleCost   `json:"per_vehicle"`
}

// VehicleCost is the fitted-tyre spend of one vehicle.
type VehicleCost struct {
	VehicleID   string          `json:"vehicle_id"`
	VehicleName string          `json:"vehicle_name"`
	TyreCount   int             `json:"tyre_count"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// GetCostSummary computes the fleet's cost analytics
func (db *Database) GetCostSummary(fleetID string) (*CostSummary, error) {
	summary := &CostSummary{FleetID: fleetID}

	rows, err := db.conn.Query(`SELECT cost, status FROM tyres WHERE fleet_id = ?`, fleetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var costStr, status string
		if err := rows.Scan(&costStr, &status); err != nil {
			return nil, err
		}
		cost, err := decimal.NewFromString(costStr)
		if err != nil {
			return nil, fmt.Errorf("bad cost %q: %w", costStr, err)
		}
		summary.TotalSpend = summary.TotalSpend.Add(cost)
		switch status {
		case models.TyreStatusFitted:
			summary.FittedSpend = summary.FittedSpend.Add(cost)
		case models.TyreStatusInStock:
			summary.InStockSpend = summary.InStockSpend.Add(cost)
		case models.TyreStatusWorn:
			summary.WornSpend = summary.WornSpend.Add(cost)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Unfitted inventory value: quantity times unit cost per stock line.
	stockRows, err := db.conn.Query(`SELECT quantity, unit_cost FROM stock_items WHERE fleet_id = ?`, fleetID)
	if err != nil {
		return nil, err
	}
	defer stockRows.Close()

	for stockRows.Next() {
		var qty int64
		var unitStr string
		if err := stockRows.Scan(&qty, &unitStr); err != nil {
			return nil, err
		}
		unit, err := decimal.NewFromString(unitStr)
		if err != nil {
			return nil, fmt.Errorf("bad unit_cost %q: %w", unitStr, err)
		}
		summary.InventoryValue = summary.InventoryValue.Add(unit.Mul(decimal.NewFromInt(qty)))
	}
	if err := stockRows.Err(); err != nil {
		return nil, err
	}

	perVehicle, err := db.perVehicleCosts(fleetID)
	if err != nil {
		return nil, err
	}
	summary.PerVehicle = perVehicle

	return summary, nil
}

func (db *Database) perVehicleCosts(fleetID string) ([]VehicleCost, error) {
	rows, err := db.conn.Query(`
		SELECT v.id, v.name, t.cost
		FROM vehicles v
		JOIN tyres t ON t.vehicle_id = v.id
		WHERE v.fleet_id = ?
		ORDER BY v.name, v.id`, fleetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []VehicleCost
	index := make(map[string]int)
	for rows.Next() {
		var id, name, costStr string
		if err := rows.Scan(&id, &name, &costStr); err != nil {
			return nil, err
		}
		cost, err := decimal.NewFromString(costStr)
		if err != nil {
			return nil, fmt.Errorf("bad cost %q: %w", costStr, err)
		}
		i, ok := index[id]
		if !ok {
			i = len(result)
			index[id] = i
			result = append(result, VehicleCost{VehicleID: id, VehicleName: name})
		}
		result[i].TyreCount++
		result[i].TotalCost = result[i].TotalCost.Add(cost)
	}
	return result, rows.Err()
}

// TreadSummary aggregates tread depth per vehicle for a fleet.
type TreadSummary struct {
	FleetID     string         `json:"fleet_id"`
	ThresholdMM float64        `json:"threshold_mm"`
	Vehicles    []VehicleTread `json:"vehicles"`
}

// VehicleTread is the tread condition of one vehicle's fitted tyres.
type VehicleTread struct {
	VehicleID      string  `json:"vehicle_id"`
	VehicleName    string  `json:"vehicle_name"`
	TyreCount      int     `json:"tyre_count"`
	AvgTreadMM     float64 `json:"avg_tread_mm"`
	MinTreadMM     float64 `json:"min_tread_mm"`
	BelowThreshold int     `json:"below_threshold"`
}

// GetTreadSummary computes per-vehicle tread statistics over fitted tyres
func (db *Database) GetTreadSummary(fleetID string, thresholdMM float64) (*TreadSummary, error) {
	query := `
		SELECT
			v.id,
			v.name,
			COUNT(t.id) as tyre_count,
			COALESCE(AVG(t.tread_depth_mm), 0) as avg_tread,
			COALESCE(MIN(t.tread_depth_mm), 0) as min_tread,
			COALESCE(SUM(CASE WHEN t.tread_depth_mm < ? THEN 1 ELSE 0 END), 0) as below
		FROM vehicles v
		LEFT JOIN tyres t ON t.vehicle_id = v.id AND t.status = 'fitted'
		WHERE v.fleet_id = ?
		GROUP BY v.id, v.name
		ORDER BY v.name, v.id
	`
	rows, err := db.conn.Query(query, thresholdMM, fleetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &TreadSummary{FleetID: fleetID, ThresholdMM: thresholdMM}
	for rows.Next() {
		var vt VehicleTread
		if err := rows.Scan(&vt.VehicleID, &vt.VehicleName, &vt.TyreCount, &vt.AvgTreadMM, &vt.MinTreadMM, &vt.BelowThreshold); err != nil {
			return nil, err
		}
		summary.Vehicles = append(summary.Vehicles, vt)
	}
	return summary, rows.Err()
}
