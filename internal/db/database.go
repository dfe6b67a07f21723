package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps the SQLite connection
type Database struct {
	conn *sql.DB
}

// New creates a new database connection
func New(dbPath string) (*Database, error) {
	// Enable WAL mode and other optimizations via connection string
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on", dbPath)

	conn, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &Database{conn: conn}

	if err := db.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// initialize creates tables and indexes
func (db *Database) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS fleets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (owner_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS fleet_members (
		fleet_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (fleet_id, user_id),
		FOREIGN KEY (fleet_id) REFERENCES fleets(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		fleet_id TEXT NOT NULL,
		name TEXT NOT NULL,
		registration TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		axle_count INTEGER NOT NULL,
		year INTEGER NOT NULL,
		odometer_km REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (fleet_id) REFERENCES fleets(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS tyres (
		id TEXT PRIMARY KEY,
		fleet_id TEXT NOT NULL,
		vehicle_id TEXT,
		position TEXT,
		brand TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		tread_depth_mm REAL NOT NULL DEFAULT 0,
		cost TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (fleet_id) REFERENCES fleets(id) ON DELETE CASCADE,
		FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS stock_items (
		id TEXT PRIMARY KEY,
		fleet_id TEXT NOT NULL,
		brand TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0,
		unit_cost TEXT NOT NULL DEFAULT '0',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (fleet_id) REFERENCES fleets(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_fleet_members_user ON fleet_members(user_id);
	CREATE INDEX IF NOT EXISTS idx_vehicles_fleet ON vehicles(fleet_id);
	CREATE INDEX IF NOT EXISTS idx_tyres_fleet ON tyres(fleet_id);
	CREATE INDEX IF NOT EXISTS idx_tyres_vehicle ON tyres(vehicle_id) WHERE vehicle_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_stock_fleet ON stock_items(fleet_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.conn.Close()
}

// GetStats returns database statistics
func (db *Database) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts := []struct {
		key   string
		query string
	}{
		{"total_users", "SELECT COUNT(*) FROM users"},
		{"total_fleets", "SELECT COUNT(*) FROM fleets"},
		{"total_vehicles", "SELECT COUNT(*) FROM vehicles"},
		{"total_tyres", "SELECT COUNT(*) FROM tyres"},
		{"fitted_tyres", "SELECT COUNT(*) FROM tyres WHERE status = 'fitted'"},
		{"stock_lines", "SELECT COUNT(*) FROM stock_items"},
	}
	for _, c := range counts {
		var n int64
		if err := db.conn.QueryRow(c.query).Scan(&n); err != nil {
			return nil, fmt.Errorf("stats %s: %w", c.key, err)
		}
		stats[c.key] = n
	}

	return stats, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
