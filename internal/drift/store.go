package drift

// Store provides an interface for snapshot storage backends. Snapshots
// are append-only: a stored record is never rewritten or deleted by the
// tool, so the history of a directory only ever grows.
type Store interface {
	// Put persists the snapshot and returns the record name it was
	// stored under. The write is atomic: a concurrent reader either
	// sees the complete record or no record at all.
	Put(snapshot *Snapshot) (string, error)

	// List returns every stored snapshot for the identifier, ordered by
	// ascending timestamp. Contents are returned unfiltered, exactly as
	// persisted. A record whose name or body cannot be parsed is a
	// fatal error: it means the stored history can no longer be
	// trusted, and a partial answer would silently misreport drift.
	List(identifier string) ([]*Snapshot, error)
}
