package drift

// Hasher produces the hex fingerprints that stand in for identity
// throughout the system. One algorithm serves two purposes: file
// contents (snapshot records) and directory paths (history
// identifiers). The two digest spaces are never compared with each
// other, so sharing the algorithm is safe.
type Hasher interface {
	// File streams the file's bytes through the hash and returns the
	// lowercase hex digest. Read errors propagate; there is no retry.
	File(path string) (string, error)

	// String returns the lowercase hex digest of the UTF-8 bytes of s.
	String(s string) string
}
