package db

import (
	"fleet-tyre-manager/internal/models"
)

// InsertUser adds a new user account
func (db *Database) InsertUser(u *models.User) error {
	query := `INSERT INTO users (id, email, name, password_hash) VALUES (?, ?, ?, ?)`
	_, err := db.conn.Exec(query, u.ID, u.Email, u.Name, u.PasswordHash)
	return err
}

// GetUser retrieves a user by ID
func (db *Database) GetUser(id string) (*models.User, error) {
	query := `SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`

	var u models.User
	err := db.conn.QueryRow(query, id).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email address
func (db *Database) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`

	var u models.User
	err := db.conn.QueryRow(query, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
