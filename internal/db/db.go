// Package db is the sqlite-backed implementation of the core storage
// interfaces.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a sqlite connection. Callers hold and inject it; there is no
// package-level handle.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite serializes writers anyway; a single connection avoids
	// SQLITE_BUSY under concurrent access.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id                  TEXT PRIMARY KEY,
		customer_name       TEXT NOT NULL,
		mobile              TEXT NOT NULL,
		file_name           TEXT NOT NULL DEFAULT '',
		file_ref            TEXT NOT NULL DEFAULT '',
		pages               INTEGER NOT NULL,
		copies              INTEGER NOT NULL,
		color               TEXT NOT NULL,
		sides               TEXT NOT NULL,
		size                TEXT NOT NULL,
		pickup_time         DATETIME,
		status              TEXT NOT NULL,
		payment_status      TEXT NOT NULL,
		transaction_id      TEXT NOT NULL DEFAULT '',
		paid_at             DATETIME,
		queue_type          TEXT NOT NULL,
		priority_index      INTEGER NOT NULL,
		priority_score      REAL NOT NULL DEFAULT 0,
		assigned_printer_id TEXT NOT NULL DEFAULT '',
		progress_pct        INTEGER NOT NULL DEFAULT 0,
		price_total         REAL NOT NULL DEFAULT 0,
		version             INTEGER NOT NULL DEFAULT 1,
		created_at          DATETIME NOT NULL,
		updated_at          DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_queue ON orders (queue_type, status);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);

	CREATE TABLE IF NOT EXISTS printers (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL UNIQUE,
		status         TEXT NOT NULL,
		ppm            INTEGER NOT NULL DEFAULT 0,
		color          BOOLEAN NOT NULL DEFAULT 0,
		duplex         BOOLEAN NOT NULL DEFAULT 0,
		a4             BOOLEAN NOT NULL DEFAULT 1,
		a3             BOOLEAN NOT NULL DEFAULT 0,
		current_job_id TEXT NOT NULL DEFAULT '',
		progress_pct   INTEGER NOT NULL DEFAULT 0,
		version        INTEGER NOT NULL DEFAULT 1,
		updated_at     DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`
