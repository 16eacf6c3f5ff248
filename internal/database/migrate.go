package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-reservation/internal/config"
)

// Timestamps are stored as DATETIME(6)/TIMESTAMP(6) where the engine has a
// native type and as fixed-width text on SQLite.  Either way the values
// written by the repository compare correctly with < and >.
var schemas = map[string][]string{
	config.DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS reservations (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			room        VARCHAR(255) NOT NULL,
			start_date  DATETIME(6) NOT NULL,
			end_date    DATETIME(6) NOT NULL,
			reserved_by VARCHAR(255) NOT NULL,
			INDEX idx_reservations_room_start (room, start_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	config.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS reservations (
			id          BIGSERIAL PRIMARY KEY,
			room        VARCHAR(255) NOT NULL,
			start_date  TIMESTAMP(6) NOT NULL,
			end_date    TIMESTAMP(6) NOT NULL,
			reserved_by VARCHAR(255) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_room_start ON reservations (room, start_date)`,
	},
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS reservations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			room        TEXT NOT NULL,
			start_date  TEXT NOT NULL,
			end_date    TEXT NOT NULL,
			reserved_by TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_room_start ON reservations (room, start_date)`,
	},
}

// Migrate creates the reservations table and its index when missing.  It is
// safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, ok := schemas[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
