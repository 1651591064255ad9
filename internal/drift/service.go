package drift

import (
	"database/sql"
	"fmt"
	"path/filepath"
)

// Service is the orchestration layer that coordinates the snapshot
// components to perform the high-level operations needed by the CLI.
type Service struct {
	store  Store
	db     Database
	hasher Hasher
	filter Filter
	logger Logger
	clock  Clock
}

// NewService creates a new Service with the provided dependencies.
func NewService(store Store, db Database, hasher Hasher, filter Filter, logger Logger, clock Clock) *Service {
	return &Service{
		store:  store,
		db:     db,
		hasher: hasher,
		filter: filter,
		logger: logger,
		clock:  clock,
	}
}

// ScanResult describes one completed scan.
type ScanResult struct {
	Snapshot  *Snapshot
	Name      string
	FileCount int
}

// Identifier returns the identifier that groups the snapshot history of
// dir: the fingerprint of its absolute path.
func (s *Service) Identifier(dir string) (string, error) {
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return s.hasher.String(absolute), nil
}

// Scan captures a snapshot of dir, persists it and records the run in
// the ledger. The ledger row is opened before the walk and closed with
// the outcome, so interrupted runs stay visible as "running". No
// snapshot record is written unless the walk completed.
func (s *Service) Scan(dir string) (*ScanResult, error) {
	return s.scan("scan", dir)
}

// Rescan is Scan recorded under the "watch" operation, for runs
// triggered by the filesystem watcher rather than the user.
func (s *Service) Rescan(dir string) (*ScanResult, error) {
	return s.scan("watch", dir)
}

func (s *Service) scan(operation, dir string) (*ScanResult, error) {
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	op := &ScanOperation{
		Operation:  operation,
		Directory:  absolute,
		Identifier: s.hasher.String(absolute),
		StartedAt:  s.clock.Now().UTC(),
		Status:     "running",
	}
	if err := s.db.CreateScanOperation(op); err != nil {
		return nil, fmt.Errorf("recording scan operation: %w", err)
	}

	result, scanErr := s.capture(absolute)

	op.FinishedAt = sql.NullTime{Time: s.clock.Now().UTC(), Valid: true}
	if scanErr != nil {
		op.Status = "error"
	} else {
		op.Status = "success"
		op.SnapshotName = sql.NullString{String: result.Name, Valid: true}
		op.FileCount = int64(result.FileCount)
	}
	if err := s.db.FinishScanOperation(op); err != nil {
		if scanErr == nil {
			return nil, fmt.Errorf("finishing scan operation: %w", err)
		}
		s.logger.Error("finishing scan operation", "error", err)
	}
	if scanErr != nil {
		return nil, scanErr
	}

	s.logger.Info("snapshot captured",
		"directory", absolute,
		"name", result.Name,
		"files", result.FileCount)
	return result, nil
}

// capture builds and persists one snapshot of an absolute directory.
func (s *Service) capture(absolute string) (*ScanResult, error) {
	snapshot, err := Build(absolute, s.hasher, s.clock.Now())
	if err != nil {
		return nil, err
	}
	name, err := s.store.Put(snapshot)
	if err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}
	return &ScanResult{
		Snapshot:  snapshot,
		Name:      name,
		FileCount: len(snapshot.Contents),
	}, nil
}

// Report loads the stored history of dir and renders the drift report
// across it. Reporting is read-only and leaves no ledger row.
func (s *Service) Report(dir string) (string, error) {
	identifier, err := s.Identifier(dir)
	if err != nil {
		return "", err
	}
	snapshots, err := s.store.List(identifier)
	if err != nil {
		return "", fmt.Errorf("listing snapshots: %w", err)
	}
	s.logger.Debug("history loaded",
		"identifier", identifier,
		"snapshots", len(snapshots))
	return BuildReport(snapshots, s.filter), nil
}

// History returns the most recent ledger entries, newest first.
func (s *Service) History(limit int) ([]*ScanOperation, error) {
	operations, err := s.db.ListScanOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing scan operations: %w", err)
	}
	return operations, nil
}

// Filter exposes the ignore filter so callers that compare snapshots
// themselves (the watcher) apply the same rules as Report.
func (s *Service) Filter() Filter {
	return s.filter
}
