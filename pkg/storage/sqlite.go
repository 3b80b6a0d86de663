package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ssargent/classdb/pkg/codec"
	"github.com/ssargent/classdb/pkg/store"
)

var openDB = sql.Open

// ExportSQLite runs the SQL script for records against the SQLite database
// at path, creating it if needed. The table is dropped and recreated inside
// one transaction.
func ExportSQLite(ctx context.Context, path string, records []store.Record) error {
	db, err := openDB("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, stmt := range codec.SQLStatements(records) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sqlite export: %w", err)
	}
	return nil
}

// CountSQLite returns the number of rows in the exported table
func CountSQLite(ctx context.Context, path string) (int, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+codec.SQLTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}
