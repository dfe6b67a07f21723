package db

import (
	"fmt"

	"fleet-tyre-manager/internal/models"
)

// InsertFleet creates a fleet and records its owner as a member in one
// transaction, so membership checks never race fleet creation.
func (db *Database) InsertFleet(f *models.Fleet) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO fleets (id, name, owner_id) VALUES (?, ?, ?)`,
		f.ID, f.Name, f.OwnerID); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO fleet_members (fleet_id, user_id, role) VALUES (?, ?, ?)`,
		f.ID, f.OwnerID, models.RoleOwner); err != nil {
		return err
	}

	return tx.Commit()
}

// GetFleet retrieves a fleet by ID
func (db *Database) GetFleet(id string) (*models.Fleet, error) {
	query := `SELECT id, name, owner_id, created_at FROM fleets WHERE id = ?`

	var f models.Fleet
	err := db.conn.QueryRow(query, id).Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFleetsForUser returns every fleet the user is a member of
func (db *Database) ListFleetsForUser(userID string) ([]models.Fleet, error) {
	query := `
		SELECT f.id, f.name, f.owner_id, f.created_at
		FROM fleets f
		JOIN fleet_members m ON m.fleet_id = f.id
		WHERE m.user_id = ?
		ORDER BY f.name
	`
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fleets []models.Fleet
	for rows.Next() {
		var f models.Fleet
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt); err != nil {
			return nil, err
		}
		fleets = append(fleets, f)
	}
	return fleets, rows.Err()
}

// DeleteFleet removes a fleet; members, vehicles, tyres and stock cascade.
func (db *Database) DeleteFleet(id string) error {
	result, err := db.conn.Exec(`DELETE FROM fleets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("fleet %s not found", id)
	}
	return nil
}

// UpsertMember adds a user to a fleet or changes their role
func (db *Database) UpsertMember(m *models.FleetMember) error {
	query := `
		INSERT INTO fleet_members (fleet_id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT(fleet_id, user_id) DO UPDATE SET role = excluded.role
	`
	_, err := db.conn.Exec(query, m.FleetID, m.UserID, m.Role)
	return err
}

// RemoveMember drops a user from a fleet
func (db *Database) RemoveMember(fleetID, userID string) error {
	result, err := db.conn.Exec(`DELETE FROM fleet_members WHERE fleet_id = ? AND user_id = ?`, fleetID, userID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("member %s not found in fleet %s", userID, fleetID)
	}
	return nil
}

// ListMembers returns a fleet's members
func (db *Database) ListMembers(fleetID string) ([]models.FleetMember, error) {
	query := `SELECT fleet_id, user_id, role, added_at FROM fleet_members WHERE fleet_id = ? ORDER BY added_at`

	rows, err := db.conn.Query(query, fleetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.FleetMember
	for rows.Next() {
		var m models.FleetMember
		if err := rows.Scan(&m.FleetID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMemberRole returns the user's role in a fleet, or sql.ErrNoRows when
// they are not a member.
func (db *Database) GetMemberRole(fleetID, userID string) (string, error) {
	var role string
	err := db.conn.QueryRow(`SELECT role FROM fleet_members WHERE fleet_id = ? AND user_id = ?`,
		fleetID, userID).Scan(&role)
	if err != nil {
		return "", err
	}
	return role, nil
}
