package drift

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// Build walks the tree rooted at dir and produces a snapshot of every
// regular file beneath it. Directories contribute no records of their
// own, and irregular entries (symlinks, sockets, devices) are skipped.
// Paths are recorded relative to dir with forward slashes.
//
// The timestamp is captured once, before the walk begins, so the
// snapshot represents one logical instant even though the walk itself
// takes time. Any error during the walk aborts the build: a tree that
// cannot be read in full yields no snapshot at all.
func Build(dir string, hasher Hasher, now time.Time) (*Snapshot, error) {
	snapshot := &Snapshot{
		Identifier: hasher.String(dir),
		Timestamp:  EpochSeconds(now),
		Contents:   map[string]FileRecord{},
	}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		relative, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		digest, err := hasher.File(path)
		if err != nil {
			return fmt.Errorf("fingerprinting %s: %w", path, err)
		}
		snapshot.Contents[filepath.ToSlash(relative)] = FileRecord{Fingerprint: digest}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return snapshot, nil
}
