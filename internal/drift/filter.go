package drift

// Filter decides which paths participate in snapshot comparison.
// Filtering happens when stored snapshots are read back for reporting,
// never when they are built, so records always hold the full tree and
// ignore rules can change after the fact.
type Filter interface {
	// Includes reports whether the path takes part in comparison.
	Includes(path string) bool
}
