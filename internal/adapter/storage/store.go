// Package storage implements the SQLite-backed repositories behind the port
// interfaces. One file on disk holds the three tables; every adapter shares
// a single *sql.DB handle injected at construction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const dateLayout = "2006-01-02"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS inventory (
		item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_name TEXT NOT NULL UNIQUE,
		item_quantity INTEGER NOT NULL CHECK(item_quantity >= 0),
		item_location TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_date DATE NOT NULL,
		customer_name TEXT NOT NULL,
		order_status TEXT NOT NULL CHECK(order_status IN ('Pending', 'Confirmed', 'Processing', 'Shipped', 'Delivered', 'Cancelled')),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS shipments (
		shipment_id INTEGER PRIMARY KEY AUTOINCREMENT,
		destination TEXT NOT NULL,
		shipment_date DATE NOT NULL,
		shipment_status TEXT NOT NULL CHECK(shipment_status IN ('Preparing', 'In Transit', 'Out for Delivery', 'Delivered', 'Returned', 'Cancelled')),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_name ON inventory(item_name)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_location ON inventory(item_location)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_name)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(order_status)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_destination ON shipments(destination)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_status ON shipments(shipment_status)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_date ON shipments(shipment_date)`,
}

var pragmaStatements = []string{
	`PRAGMA foreign_keys = ON`,
	`PRAGMA journal_mode = WAL`,
	`PRAGMA synchronous = NORMAL`,
	`PRAGMA busy_timeout = 5000`,
	`PRAGMA cache_size = 10000`,
	`PRAGMA temp_store = MEMORY`,
}

// Store owns the database handle and the transaction helper. It is
// constructed explicitly and handed to each repository; there is no
// package-level instance.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database file at path, applies the
// connection pragmas and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// WAL allows one writer alongside readers, not concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database %s: %w", path, err)
	}

	for _, pragma := range pragmaStatements {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the repositories in this package.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn inside a transaction, committing on nil and rolling back on
// error. The returned error wraps fn's failure with the rollback applied.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is the driver's UNIQUE constraint
// failure, so adapters can map it to domain.DuplicateError instead of
// pre-checking with a racy SELECT.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(raw string) (time.Time, error) {
	// Dates may come back as plain dates or with a time suffix depending on
	// how the row was written.
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
