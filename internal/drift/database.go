package drift

import (
	"database/sql"
	"time"
)

// ScanOperation is one recorded run against a watched directory. Rows
// are bookkeeping only: snapshot history lives in the Store, and losing
// the ledger loses nothing the report generator needs.
type ScanOperation struct {
	ID           int64
	Operation    string // "scan" or "watch"
	Directory    string
	Identifier   string
	SnapshotName sql.NullString
	FileCount    int64
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	Status       string // "running", "success" or "error"
}

// Database records the ledger of past runs.
type Database interface {
	// CreateScanOperation inserts op with status "running" and assigns
	// op.ID. The caller fills every other field first.
	CreateScanOperation(op *ScanOperation) error

	// FinishScanOperation updates the row identified by op.ID with the
	// outcome fields: snapshot name, file count, finish time, status.
	FinishScanOperation(op *ScanOperation) error

	// ListScanOperations returns the most recent operations, newest
	// first, up to limit rows.
	ListScanOperations(limit int) ([]*ScanOperation, error)

	// Close releases the underlying connection.
	Close() error
}
