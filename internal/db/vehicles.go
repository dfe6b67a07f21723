package db

import (
	"fmt"

	"fleet-tyre-manager/internal/models"
)

// InsertVehicle adds a new vehicle
func (db *Database) InsertVehicle(v *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, fleet_id, name, registration, type, axle_count, year, odometer_km)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.conn.Exec(query, v.ID, v.FleetID, v.Name, v.Registration, v.Type, v.AxleCount, v.Year, v.OdometerKM)
	return err
}

// GetVehicle retrieves a vehicle by ID
func (db *Database) GetVehicle(id string) (*models.Vehicle, error) {
	query := `
		SELECT id, fleet_id, name, registration, type, axle_count, year, odometer_km, created_at
		FROM vehicles WHERE id = ?
	`
	var v models.Vehicle
	err := db.conn.QueryRow(query, id).Scan(
		&v.ID, &v.FleetID, &v.Name, &v.Registration, &v.Type, &v.AxleCount, &v.Year, &v.OdometerKM, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVehicles returns a fleet's vehicles
func (db *Database) ListVehicles(fleetID string) ([]models.Vehicle, error) {
	query := `
		SELECT id, fleet_id, name, registration, type, axle_count, year, odometer_km, created_at
		FROM vehicles WHERE fleet_id = ? ORDER BY name
	`
	rows, err := db.conn.Query(query, fleetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.FleetID, &v.Name, &v.Registration, &v.Type, &v.AxleCount, &v.Year, &v.OdometerKM, &v.CreatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// UpdateVehicle rewrites a vehicle's editable fields
func (db *Database) UpdateVehicle(v *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = ?, registration = ?, type = ?, axle_count = ?, year = ?, odometer_km = ?
		WHERE id = ?
	`
	result, err := db.conn.Exec(query, v.Name, v.Registration, v.Type, v.AxleCount, v.Year, v.OdometerKM, v.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("vehicle %s not found", v.ID)
	}
	return nil
}

// DeleteVehicle removes a vehicle. Its fitted tyres go back to stock in the
// same transaction: vehicle, position and status are cleared together so no
// row is left claiming a position without a vehicle.
func (db *Database) DeleteVehicle(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE tyres SET vehicle_id = NULL, position = NULL, status = ? WHERE vehicle_id = ?`,
		models.TyreStatusInStock, id); err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("vehicle %s not found", id)
	}

	return tx.Commit()
}
