// Package watch re-scans a directory as it changes on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"driftwatch/internal/drift"
)

// DefaultSettle is the quiet period applied when Options.Settle is zero.
const DefaultSettle = 2 * time.Second

// Options configure a watch session.
type Options struct {
	// Settle is how long the tree must stay quiet after the last
	// filesystem event before a rescan runs. Bursts of events (a build,
	// an unpack) collapse into one snapshot.
	Settle time.Duration
}

// OnScan is called after every completed scan. change is nil for the
// baseline scan at startup and non-nil for every rescan, including
// rescans that found no drift.
type OnScan func(result *drift.ScanResult, change *drift.Change)

// Run watches dir until ctx is cancelled. It takes a baseline snapshot
// immediately, then rescans after each settled burst of filesystem
// events. Every rescan persists a snapshot through the service, so
// watch sessions extend the same history that cron scans write. Events
// for ignored basenames do not trigger rescans.
//
// Event intake and scanning run on separate goroutines so a slow scan
// never backs up the watcher's event channel. A scan failure stops the
// session and is returned; cancellation returns nil.
func Run(ctx context.Context, svc *drift.Service, logger drift.Logger, dir string, opts Options, onScan OnScan) error {
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirsRecursive(watcher, dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Baseline snapshot before any events can arrive.
	result, err := svc.Rescan(dir)
	if err != nil {
		return err
	}
	previous := drift.FilterSnapshot(result.Snapshot, svc.Filter())
	if onScan != nil {
		onScan(result, nil)
	}
	logger.Info("watch started",
		"directory", dir,
		"files", result.FileCount,
		"settle", settle)

	trigger := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&fsnotify.Create != 0 {
					if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
						if addErr := addDirsRecursive(watcher, ev.Name); addErr != nil {
							logger.Warn("watching new directory failed",
								"path", ev.Name,
								"error", addErr)
						}
						// The new directory may already hold files.
						nudge(trigger)
						continue
					}
				}
				if !svc.Filter().Includes(ev.Name) {
					continue
				}
				logger.Debug("filesystem event", "op", ev.Op.String(), "path", ev.Name)
				nudge(trigger)

			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Error("watcher error", "error", watchErr)
			}
		}
	})

	g.Go(func() error {
		// settleTimer is armed on the first event of a burst and pushed
		// back by every following event.
		var settleTimer *time.Timer
		var settled <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if settleTimer != nil {
					settleTimer.Stop()
				}
				return nil

			case <-trigger:
				if settleTimer == nil {
					settleTimer = time.NewTimer(settle)
					settled = settleTimer.C
				} else {
					settleTimer.Reset(settle)
				}

			case <-settled:
				result, err := svc.Rescan(dir)
				if err != nil {
					return err
				}
				current := drift.FilterSnapshot(result.Snapshot, svc.Filter())
				change := drift.Compare(previous, current)
				previous = current

				if change.Empty() {
					logger.Debug("rescan found no drift", "files", result.FileCount)
				} else {
					logger.Info("drift detected",
						"additions", len(change.Additions),
						"removals", len(change.Removals),
						"updates", len(change.Updates))
				}
				if onScan != nil {
					onScan(result, &change)
				}
			}
		}
	})

	return g.Wait()
}

// nudge marks the trigger channel without blocking; a pending trigger
// already covers the new event.
func nudge(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
