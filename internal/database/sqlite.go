// Package database implements the scan-operation ledger on SQLite.
package database

import (
	"database/sql"
	"fmt"

	"driftwatch/internal/database/migrations"
	"driftwatch/internal/drift"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

var _ drift.Database = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase opens (or creates) the ledger at path and brings
// its schema up to date. path can be a file path or ":memory:" for an
// in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating ledger schema: %w", err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with
// appropriate PRAGMAs. Exported for tests that need a raw connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Scans from cron and an interactive report may overlap briefly.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return db, nil
}

// CreateScanOperation inserts op and assigns its row ID.
func (s *SQLiteDatabase) CreateScanOperation(op *drift.ScanOperation) error {
	result, err := s.db.Exec(`
		INSERT INTO scan_operations
			(operation, directory, identifier, snapshot_name, file_count, started_at, finished_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.Operation, op.Directory, op.Identifier, op.SnapshotName,
		op.FileCount, op.StartedAt, op.FinishedAt, op.Status)
	if err != nil {
		return fmt.Errorf("inserting scan operation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading scan operation id: %w", err)
	}
	op.ID = id
	return nil
}

// FinishScanOperation updates the outcome fields of the row op.ID.
func (s *SQLiteDatabase) FinishScanOperation(op *drift.ScanOperation) error {
	result, err := s.db.Exec(`
		UPDATE scan_operations
		SET snapshot_name = ?, file_count = ?, finished_at = ?, status = ?
		WHERE id = ?`,
		op.SnapshotName, op.FileCount, op.FinishedAt, op.Status, op.ID)
	if err != nil {
		return fmt.Errorf("updating scan operation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scan operation %d not found", op.ID)
	}
	return nil
}

// ListScanOperations returns the most recent operations, newest first.
func (s *SQLiteDatabase) ListScanOperations(limit int) ([]*drift.ScanOperation, error) {
	rows, err := s.db.Query(`
		SELECT id, operation, directory, identifier, snapshot_name, file_count, started_at, finished_at, status
		FROM scan_operations
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scan operations: %w", err)
	}
	defer rows.Close()

	var operations []*drift.ScanOperation
	for rows.Next() {
		op := &drift.ScanOperation{}
		if err := rows.Scan(&op.ID, &op.Operation, &op.Directory, &op.Identifier,
			&op.SnapshotName, &op.FileCount, &op.StartedAt, &op.FinishedAt, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning scan operation row: %w", err)
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan operations: %w", err)
	}
	return operations, nil
}

// Close releases the underlying connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}
