package snapstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"driftwatch/internal/drift"
	"driftwatch/internal/fsutil"
)

// FilesystemStore persists snapshot records as flat files in a single
// directory. Bodies are canonical JSON unless an encryptor is attached,
// in which case they are sealed and the record name carries an extra
// ".age" suffix. Writes go through a temp file and rename, so a record
// is either fully present or absent.
type FilesystemStore struct {
	dir  string
	enc  drift.Encryptor
	dctx drift.DecryptionContext
}

// NewFilesystemStore creates the store directory if needed.
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FilesystemStore{dir: dir}, nil
}

// WithEncryption attaches an encryptor for writing and, when dctx is
// non-nil, a decryption context for reading. A store with enc set but
// dctx nil can Put but will refuse to List encrypted records.
func (s *FilesystemStore) WithEncryption(enc drift.Encryptor, dctx drift.DecryptionContext) *FilesystemStore {
	s.enc = enc
	s.dctx = dctx
	return s
}

// Put persists the snapshot under its canonical record name.
func (s *FilesystemStore) Put(snapshot *drift.Snapshot) (string, error) {
	data, err := snapshot.EncodeContents()
	if err != nil {
		return "", err
	}
	name := EncodeName(snapshot.Identifier, snapshot.Timestamp)

	if s.enc != nil {
		var sealed bytes.Buffer
		if err := s.enc.Encrypt(bytes.NewReader(data), &sealed); err != nil {
			return "", fmt.Errorf("encrypting snapshot record: %w", err)
		}
		data = sealed.Bytes()
		name += encSuffix
	}

	if err := fsutil.WriteAtomic(filepath.Join(s.dir, name), data); err != nil {
		return "", fmt.Errorf("writing snapshot record: %w", err)
	}
	return name, nil
}

// List loads every record for the identifier, ordered by ascending
// timestamp. Timestamps are compared numerically, not by filename, so
// records of differing precision still sort correctly.
func (s *FilesystemStore) List(identifier string) ([]*drift.Snapshot, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, namePrefix+identifier+"-*"))
	if err != nil {
		return nil, fmt.Errorf("globbing snapshot records: %w", err)
	}

	snapshots := make([]*drift.Snapshot, 0, len(matches))
	for _, match := range matches {
		name := filepath.Base(match)
		encrypted := strings.HasSuffix(name, encSuffix)

		id, timestamp, err := ParseName(strings.TrimSuffix(name, encSuffix))
		if err != nil {
			return nil, fmt.Errorf("corrupt snapshot store: %w", err)
		}
		if id != identifier {
			// Glob caught a record of a different directory.
			continue
		}

		data, err := os.ReadFile(match)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot record %s: %w", name, err)
		}
		if encrypted {
			if s.dctx == nil {
				return nil, fmt.Errorf("snapshot record %s is encrypted and the store is locked", name)
			}
			var plain bytes.Buffer
			if err := s.dctx.Decrypt(bytes.NewReader(data), &plain); err != nil {
				return nil, fmt.Errorf("decrypting snapshot record %s: %w", name, err)
			}
			data = plain.Bytes()
		}

		contents, err := drift.DecodeContents(data)
		if err != nil {
			return nil, fmt.Errorf("corrupt snapshot record %s: %w", name, err)
		}
		snapshots = append(snapshots, &drift.Snapshot{
			Identifier: identifier,
			Timestamp:  timestamp,
			Contents:   contents,
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp < snapshots[j].Timestamp
	})
	return snapshots, nil
}

var _ drift.Store = (*FilesystemStore)(nil)
