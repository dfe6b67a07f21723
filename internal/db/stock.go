package db

import (
	"fmt"

	"fleet-tyre-manager/internal/models"

	"github.com/shopspring/decimal"
)

// InsertStockItem adds an inventory line
func (db *Database) InsertStockItem(s *models.StockItem) error {
	query := `
		INSERT INTO stock_items (id, fleet_id, brand, model, size, quantity, unit_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.conn.Exec(query, s.ID, s.FleetID, s.Brand, s.Model, s.Size, s.Quantity, s.UnitCost.String())
	return err
}

func scanStockItem(scan func(dest ...interface{}) error) (models.StockItem, error) {
	var s models.StockItem
	var unitCost string

	err := scan(&s.ID, &s.FleetID, &s.Brand, &s.Model, &s.Size, &s.Quantity, &unitCost, &s.CreatedAt)
	if err != nil {
		return s, err
	}
	s.UnitCost, err = decimal.NewFromString(unitCost)
	if err != nil {
		return s, fmt.Errorf("stock item %s has bad unit_cost %q: %w", s.ID, unitCost, err)
	}
	return s, nil
}

// GetStockItem retrieves an inventory line by ID
func (db *Database) GetStockItem(id string) (*models.StockItem, error) {
	row := db.conn.QueryRow(`
		SELECT id, fleet_id, brand, model, size, quantity, unit_cost, created_at
		FROM stock_items WHERE id = ?`, id)
	s, err := scanStockItem(row.Scan)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStock returns a fleet's inventory lines
func (db *Database) ListStock(fleetID string) ([]models.StockItem, error) {
	rows, err := db.conn.Query(`
		SELECT id, fleet_id, brand, model, size, quantity, unit_cost, created_at
		FROM stock_items WHERE fleet_id = ? ORDER BY brand, model, size`, fleetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.StockItem
	for rows.Next() {
		s, err := scanStockItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// UpdateStockItem rewrites an inventory line
func (db *Database) UpdateStockItem(s *models.StockItem) error {
	query := `
		UPDATE stock_items SET brand = ?, model = ?, size = ?, quantity = ?, unit_cost = ?
		WHERE id = ?
	`
	result, err := db.conn.Exec(query, s.Brand, s.Model, s.Size, s.Quantity, s.UnitCost.String(), s.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("stock item %s not found", s.ID)
	}
	return nil
}

// DeleteStockItem removes an inventory line
func (db *Database) DeleteStockItem(id string) error {
	result, err := db.conn.Exec(`DELETE FROM stock_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("stock item %s not found", id)
	}
	return nil
}

// TakeFromStock decrements an inventory line and materialises the taken unit
// as a tyre record, in one transaction. The new tyre inherits the line's
// brand, model, size and unit cost.
func (db *Database) TakeFromStock(stockID string, t *models.Tyre) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE stock_items SET quantity = quantity - 1 WHERE id = ? AND quantity > 0`, stockID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("stock item %s is empty or missing", stockID)
	}

	_, err = tx.Exec(`
		INSERT INTO tyres (`+tyreColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		t.ID, t.FleetID, nullable(t.VehicleID), nullable(t.Position),
		t.Brand, t.Model, t.Size, t.TreadDepthMM, t.Cost.String(), t.Status)
	if err != nil {
		return err
	}

	return tx.Commit()
}
