// Package database is the journal's Postgres persistence layer. Queries are
// hand-written SQL over database/sql; money columns are scanned through
// shopspring/decimal.
//
// Balance bookkeeping lives here: creating, editing, or deleting a trade or
// transaction adjusts the owning account's stored balance inside the same
// SQL transaction, so the authoritative balance can never drift from the
// recorded history.
package database

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// DB wraps the Postgres connection
type DB struct {
	conn *sql.DB
}

// New connects to Postgres and verifies the connection
func New(connStr string) (*DB, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Migrate applies all pending migrations from the given directory
func (db *DB) Migrate(migrationsPath string) error {
	driver, err := postgres.WithInstance(db.conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
