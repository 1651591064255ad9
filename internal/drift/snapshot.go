package drift

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// FileRecord is the recorded identity of one file within a snapshot.
// It currently carries only the content fingerprint, but the record is
// deliberately a struct rather than a bare string: fields (size, mode)
// can be added later without changing the comparison contract, which is
// full structural equality of the whole record.
type FileRecord struct {
	Fingerprint string `json:"h"`
}

// Snapshot is the immutable recorded state of a directory tree at one
// instant. Identifier groups all snapshots of the same directory;
// Timestamp is UTC seconds since the Unix epoch, captured once at the
// start of the walk. Contents maps slash-separated relative paths to
// their records. A Snapshot is never mutated after it is built.
type Snapshot struct {
	Identifier string
	Timestamp  float64
	Contents   map[string]FileRecord
}

// Time returns the snapshot timestamp as a time.Time in UTC, at the
// microsecond precision the stored encoding preserves.
func (s *Snapshot) Time() time.Time {
	return epochTime(s.Timestamp)
}

// EncodeContents serializes the contents map to its canonical stored
// form: keys sorted, 4-space indentation, trailing newline. The form is
// deterministic, so an unchanged tree produces a byte-identical record
// on every run.
func (s *Snapshot) EncodeContents() ([]byte, error) {
	contents := s.Contents
	if contents == nil {
		contents = map[string]FileRecord{}
	}
	data, err := json.MarshalIndent(contents, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot contents: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeContents parses the stored form produced by EncodeContents.
// The returned map is never nil.
func DecodeContents(data []byte) (map[string]FileRecord, error) {
	var contents map[string]FileRecord
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("decoding snapshot contents: %w", err)
	}
	if contents == nil {
		contents = map[string]FileRecord{}
	}
	return contents, nil
}

// EpochSeconds converts a time to the float seconds-since-epoch
// representation used in snapshot timestamps and record names.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// epochTime is the inverse of EpochSeconds.
func epochTime(ts float64) time.Time {
	return time.UnixMicro(int64(math.Round(ts * 1e6))).UTC()
}
