package snapstore

import (
	"fmt"
	"sort"
	"sync"

	"driftwatch/internal/drift"
)

// MemoryStore keeps snapshot records in memory. Nothing survives the
// process; it exists for tests and for dry runs where persisting
// history is unwanted. Records round-trip through the same encoding as
// the filesystem store so codec problems surface here too. Safe for
// concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]memoryRecord
}

type memoryRecord struct {
	timestamp float64
	data      []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string][]memoryRecord{}}
}

// Put encodes and retains the snapshot, returning its record name.
func (s *MemoryStore) Put(snapshot *drift.Snapshot) (string, error) {
	data, err := snapshot.EncodeContents()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[snapshot.Identifier] = append(s.records[snapshot.Identifier], memoryRecord{
		timestamp: snapshot.Timestamp,
		data:      data,
	})
	return EncodeName(snapshot.Identifier, snapshot.Timestamp), nil
}

// List decodes the retained records for the identifier in ascending
// timestamp order.
func (s *MemoryStore) List(identifier string) ([]*drift.Snapshot, error) {
	s.mu.Lock()
	records := make([]memoryRecord, len(s.records[identifier]))
	copy(records, s.records[identifier])
	s.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].timestamp < records[j].timestamp
	})

	snapshots := make([]*drift.Snapshot, 0, len(records))
	for _, record := range records {
		contents, err := drift.DecodeContents(record.data)
		if err != nil {
			return nil, fmt.Errorf("corrupt snapshot record: %w", err)
		}
		snapshots = append(snapshots, &drift.Snapshot{
			Identifier: identifier,
			Timestamp:  record.timestamp,
			Contents:   contents,
		})
	}
	return snapshots, nil
}

var _ drift.Store = (*MemoryStore)(nil)
