// Package fingerprint computes the hex digests used for file identity
// and directory identifiers.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"

	"driftwatch/internal/drift"
)

// Files are streamed through the hash in fixed-size chunks so large
// files never load into memory whole.
const chunkSize = 64 * 1024

// SHA256 fingerprints with SHA-256. This is the default algorithm and
// the one whose digests are compatible with existing snapshot stores.
type SHA256 struct{}

func NewSHA256() *SHA256 { return &SHA256{} }

func (*SHA256) File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (*SHA256) String(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// XXH3 fingerprints with 128-bit XXH3. Much faster than SHA-256 on
// large trees, but its digests live in a different space: switching
// algorithms over an existing store makes every file look updated once.
type XXH3 struct{}

func NewXXH3() *XXH3 { return &XXH3{} }

func (*XXH3) File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:]), nil
}

func (*XXH3) String(s string) string {
	sum := xxh3.Hash128([]byte(s)).Bytes()
	return hex.EncodeToString(sum[:])
}

var (
	_ drift.Hasher = (*SHA256)(nil)
	_ drift.Hasher = (*XXH3)(nil)
)

// Algorithm names accepted by New.
const (
	AlgorithmSHA256 = "sha256"
	AlgorithmXXH3   = "xxh3"
)

// New returns the hasher for the named algorithm. An empty name selects
// SHA-256.
func New(algorithm string) (drift.Hasher, error) {
	switch algorithm {
	case AlgorithmSHA256, "":
		return NewSHA256(), nil
	case AlgorithmXXH3:
		return NewXXH3(), nil
	default:
		return nil, fmt.Errorf("unknown fingerprint algorithm: %q", algorithm)
	}
}
