// Package snapstore implements the snapshot storage backends.
package snapstore

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	namePrefix = "snapshot-"
	nameSuffix = ".json"

	// encSuffix is appended to the record name when the body is
	// encrypted at rest.
	encSuffix = ".age"
)

// EncodeName builds the record name for a snapshot:
// snapshot-<identifier>-<timestamp>.json, with the timestamp printed at
// fixed microsecond precision so names stay stable and parseable.
func EncodeName(identifier string, timestamp float64) string {
	return namePrefix + identifier + "-" + strconv.FormatFloat(timestamp, 'f', 6, 64) + nameSuffix
}

// ParseName extracts the identifier and timestamp from a record name.
// It accepts any float precision in the timestamp part, so records
// written by earlier versions of the tool still parse. A name that does
// not fit the pattern is an error; the store layer treats that as
// corruption.
func ParseName(name string) (string, float64, error) {
	base, ok := strings.CutSuffix(name, nameSuffix)
	if !ok {
		return "", 0, fmt.Errorf("snapshot name %q: missing %s suffix", name, nameSuffix)
	}
	body, ok := strings.CutPrefix(base, namePrefix)
	if !ok {
		return "", 0, fmt.Errorf("snapshot name %q: missing %s prefix", name, namePrefix)
	}
	cut := strings.LastIndex(body, "-")
	if cut < 1 {
		return "", 0, fmt.Errorf("snapshot name %q: missing timestamp separator", name)
	}
	identifier := body[:cut]
	timestamp, err := strconv.ParseFloat(body[cut+1:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("snapshot name %q: bad timestamp: %w", name, err)
	}
	return identifier, timestamp, nil
}
