package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"driftwatch/internal/config"
	"driftwatch/internal/database"
	"driftwatch/internal/drift"
	"driftwatch/internal/encryption"
	"driftwatch/internal/fingerprint"
	"driftwatch/internal/fsutil"
	"driftwatch/internal/ignore"
	"driftwatch/internal/snapstore"
	"driftwatch/internal/watch"
)

// App is the application layer between the CLI and the drift Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and manages the DB and log file lifecycle
// on Close.
type App struct {
	db      drift.Database
	service *drift.Service
	logger  drift.Logger
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
// operation is one of the Op constants and identifies the CLI command
// being run. The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	hasher, err := fingerprint.New(cfg.Fingerprint.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("creating fingerprinter: %w", err)
	}

	filter, err := ignore.Load(cfg.Ignore.Path, cfg.Ignore.Basenames)
	if err != nil {
		return nil, fmt.Errorf("loading ignore file: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	// Reading operations need the private key unlocked before the store
	// is built. Scans seal new records with the public key alone.
	var dctx drift.DecryptionContext
	if enc != nil && readsSnapshots(operation) {
		if !enc.IsConfigured() {
			return nil, fmt.Errorf("encryption is enabled but no key pair exists: run \"driftwatch config keygen\" first")
		}
		passphrase, err := readPassphrase()
		if err != nil {
			return nil, err
		}
		dctx, err = enc.Unlock(passphrase)
		if err != nil {
			return nil, fmt.Errorf("unlocking snapshot store: %w", err)
		}
	}

	store, err := snapstore.NewStoreFromConfig(cfg.Store, enc, dctx)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	opID := operation + "-" + time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	logger := &slogAdapter{l: slogger}
	svc := drift.NewService(store, db, hasher, filter, logger, drift.RealClock{})

	return &App{
		db:      db,
		service: svc,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Scan captures a snapshot of the directory and persists it.
func (a *App) Scan(rawDir string) (*drift.ScanResult, error) {
	return a.service.Scan(rawDir)
}

// Report renders the drift report across the stored history of the
// directory.
func (a *App) Report(rawDir string) (string, error) {
	return a.service.Report(rawDir)
}

// WriteReport delivers a rendered report: atomically to outputPath, or
// to stdout when outputPath is empty.
func (a *App) WriteReport(report, outputPath string) error {
	if outputPath == "" {
		fmt.Print(report)
		return nil
	}
	if err := fsutil.WriteAtomic(outputPath, []byte(report)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// History returns the most recent scan operations from the ledger.
func (a *App) History(limit int) ([]*drift.ScanOperation, error) {
	return a.service.History(limit)
}

// Watch re-scans the directory as it changes until ctx is cancelled,
// printing each change summary to stdout. When outputPath is set, the
// full report is also regenerated there after every drifted rescan, so
// the file always holds the current history.
func (a *App) Watch(ctx context.Context, rawDir string, settle time.Duration, outputPath string) error {
	onScan := func(result *drift.ScanResult, change *drift.Change) {
		if change == nil {
			fmt.Printf("Watching %s (%d files)\n", rawDir, result.FileCount)
			return
		}
		if change.Empty() {
			return
		}
		fmt.Print(drift.FormatChange(*change))

		if outputPath == "" {
			return
		}
		report, err := a.service.Report(rawDir)
		if err != nil {
			a.logger.Error("regenerating report", "error", err)
			return
		}
		if err := fsutil.WriteAtomic(outputPath, []byte(report)); err != nil {
			a.logger.Error("writing report", "path", outputPath, "error", err)
		}
	}

	return watch.Run(ctx, a.service, a.logger, rawDir, watch.Options{Settle: settle}, onScan)
}

// Close closes the database and the log file. The first error wins.
func (a *App) Close() error {
	var firstErr error

	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}

// Keygen generates the key pair for the configured encryptor, prompting
// for the passphrase that will protect the private key. It refuses to
// overwrite an existing pair.
func Keygen(cfg *config.Config) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc == nil {
		return fmt.Errorf("encryption is disabled: set encryption.type = \"age\" in the config first")
	}
	if enc.IsConfigured() {
		return fmt.Errorf("a key pair already exists at %s", cfg.Encryption.PublicKeyPath)
	}

	passphrase, err := readNewPassphrase()
	if err != nil {
		return err
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	return nil
}
