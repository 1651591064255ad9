package database

import (
	"fmt"
	"os"
	"path/filepath"

	"driftwatch/internal/config"
	"driftwatch/internal/drift"
)

// NewDatabaseFromConfig creates a Database implementation based on the
// database config type. The ledger file is per host: each machine owns
// its own run history even when the snapshot store is shared.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (drift.Database, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, hostID+".db"))
	case "memory":
		return NewSQLiteDatabase(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
