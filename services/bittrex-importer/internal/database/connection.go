package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const OrdersTable = "Orders"

// OrderColumns lists the Orders columns in insertion order.
var OrderColumns = []string{
	"Id", "Pair", "Exchange", "Type", "Quantity", "Limit", "CommissionPaid",
	"OpenDate", "CloseDate",
}

const createOrdersTableSQL = `CREATE TABLE IF NOT EXISTS "Orders" (
	"Id" TEXT NOT NULL,
	"Pair" TEXT NOT NULL,
	"Exchange" TEXT NOT NULL,
	"Type" INTEGER NOT NULL,
	"Quantity" REAL NOT NULL,
	"Limit" REAL NOT NULL,
	"CommissionPaid" REAL NOT NULL,
	"OpenDate" TEXT NOT NULL,
	"CloseDate" TEXT,
	PRIMARY KEY("Id")
)`

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// uriPathEscaper escapes the characters SQLite treats specially inside
// the path of a file: URI.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// dsn builds a file: URI so the path reaches SQLite verbatim. mode=rw
// keeps the driver from creating a missing file.
func (c Config) dsn() string {
	dsn := "file:" + uriPathEscaper.Replace(c.Path) + "?mode=rw"
	if c.BusyTimeout > 0 {
		dsn += fmt.Sprintf("&_pragma=busy_timeout(%d)", c.BusyTimeout.Milliseconds())
	}
	return dsn
}

// NewConnection opens an existing SQLite file; a missing file is an error.
func NewConnection(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection for SQLite to avoid locking issues
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func RunMigrations(ctx context.Context, db *sql.DB, migrationSQL string) error {
	_, err := db.ExecContext(ctx, migrationSQL)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// EnsureOrdersTable creates the Orders table when it is absent. An
// existing table is left untouched.
func EnsureOrdersTable(ctx context.Context, db *sql.DB) error {
	return RunMigrations(ctx, db, createOrdersTableSQL)
}
