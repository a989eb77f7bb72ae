package repository

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Every pooled connection would get its own private in-memory database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			increment_id TEXT NOT NULL,
			quote_id TEXT NOT NULL,
			store_id TEXT NOT NULL,
			currency TEXT NOT NULL,
			customer_id TEXT,
			space_id INTEGER NOT NULL,
			transaction_id INTEGER,
			security_token TEXT,
			payload TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_transaction ON orders(space_id, transaction_id)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			dob TEXT,
			gender TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS transaction_info (
			order_id TEXT PRIMARY KEY,
			space_id INTEGER NOT NULL,
			transaction_id INTEGER NOT NULL,
			version INTEGER NOT NULL,
			state TEXT NOT NULL,
			failure_reason TEXT,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_info_state ON transaction_info(state)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_info_transaction ON transaction_info(space_id, transaction_id)`,

		`CREATE TABLE IF NOT EXISTS event_receipts (
			hash TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			order_id TEXT NOT NULL,
			received_at DATETIME NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstN(stmt, 60), err)
		}
	}

	return nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
