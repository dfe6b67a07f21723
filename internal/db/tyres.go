package db

import (
	"database/sql"
	"fmt"
	"strings"

	"fleet-tyre-manager/internal/models"

	"github.com/shopspring/decimal"
)

// TyreQuery represents filter parameters for tyre searches
type TyreQuery struct {
	FleetID   string
	VehicleID string
	Status    string
	Position  string
	Limit     int
	Offset    int
}

const tyreColumns = `id, fleet_id, vehicle_id, position, brand, model, size, tread_depth_mm, cost, status, created_at`

// InsertTyre adds a single tyre record
func (db *Database) InsertTyre(t *models.Tyre) error {
	query := `
		INSERT INTO tyres (` + tyreColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	_, err := db.conn.Exec(query,
		t.ID, t.FleetID, nullable(t.VehicleID), nullable(t.Position),
		t.Brand, t.Model, t.Size, t.TreadDepthMM, t.Cost.String(), t.Status)
	return err
}

func scanTyre(scan func(dest ...interface{}) error) (models.Tyre, error) {
	var t models.Tyre
	var vehicleID, position sql.NullString
	var cost string

	err := scan(&t.ID, &t.FleetID, &vehicleID, &position,
		&t.Brand, &t.Model, &t.Size, &t.TreadDepthMM, &cost, &t.Status, &t.CreatedAt)
	if err != nil {
		return t, err
	}
	t.VehicleID = vehicleID.String
	t.Position = position.String
	t.Cost, err = decimal.NewFromString(cost)
	if err != nil {
		return t, fmt.Errorf("tyre %s has bad cost %q: %w", t.ID, cost, err)
	}
	return t, nil
}

// GetTyre retrieves a tyre by ID
func (db *Database) GetTyre(id string) (*models.Tyre, error) {
	row := db.conn.QueryRow(`SELECT `+tyreColumns+` FROM tyres WHERE id = ?`, id)
	t, err := scanTyre(row.Scan)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// QueryTyres retrieves tyres matching the filters. Results come back in
// creation order; the layout matcher depends on that being stable since
// tyres carry no ordinal field.
func (db *Database) QueryTyres(q TyreQuery) ([]models.Tyre, error) {
	var conditions []string
	var args []interface{}

	baseQuery := `SELECT ` + tyreColumns + ` FROM tyres`

	if q.FleetID != "" {
		conditions = append(conditions, "fleet_id = ?")
		args = append(args, q.FleetID)
	}
	if q.VehicleID != "" {
		conditions = append(conditions, "vehicle_id = ?")
		args = append(args, q.VehicleID)
	}
	if q.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, q.Status)
	}
	if q.Position != "" {
		conditions = append(conditions, "position = ?")
		args = append(args, q.Position)
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	baseQuery += " ORDER BY created_at, id"

	if q.Limit > 0 {
		baseQuery += fmt.Sprintf(" LIMIT %d", q.Limit)
		if q.Offset > 0 {
			baseQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
		}
	}

	rows, err := db.conn.Query(baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Tyre
	for rows.Next() {
		t, err := scanTyre(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// UpdateTyre rewrites a tyre's editable fields
func (db *Database) UpdateTyre(t *models.Tyre) error {
	query := `
		UPDATE tyres
		SET vehicle_id = ?, position = ?, brand = ?, model = ?, size = ?,
		    tread_depth_mm = ?, cost = ?, status = ?
		WHERE id = ?
	`
	result, err := db.conn.Exec(query,
		nullable(t.VehicleID), nullable(t.Position),
		t.Brand, t.Model, t.Size, t.TreadDepthMM, t.Cost.String(), t.Status, t.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tyre %s not found", t.ID)
	}
	return nil
}

// DeleteTyre removes a tyre record
func (db *Database) DeleteTyre(id string) error {
	result, err := db.conn.Exec(`DELETE FROM tyres WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tyre %s not found", id)
	}
	return nil
}

// FitTyre mounts a tyre on a vehicle position
func (db *Database) FitTyre(tyreID, vehicleID, position string) error {
	query := `UPDATE tyres SET vehicle_id = ?, position = ?, status = ? WHERE id = ?`
	result, err := db.conn.Exec(query, vehicleID, position, models.TyreStatusFitted, tyreID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tyre %s not found", tyreID)
	}
	return nil
}

// UnfitTyre takes a tyre off its vehicle, back to stock or scrapped as worn
func (db *Database) UnfitTyre(tyreID, status string) error {
	query := `UPDATE tyres SET vehicle_id = NULL, position = NULL, status = ? WHERE id = ?`
	result, err := db.conn.Exec(query, status, tyreID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tyre %s not found", tyreID)
	}
	return nil
}
