package drift

// Change records what happened between two chronologically adjacent
// snapshots of one directory. Date carries the timestamp of the later
// snapshot. Every path appears in at most one of the three maps:
// additions and updates hold the later snapshot's record, removals hold
// the record the file had before it disappeared.
type Change struct {
	Date      float64
	Additions map[string]FileRecord
	Removals  map[string]FileRecord
	Updates   map[string]FileRecord
}

// Compare computes the Change from older to newer. A path present only
// in newer is an addition, a path present only in older is a removal,
// and a path present in both whose records differ in any field is an
// update. Both snapshots are left untouched.
func Compare(older, newer *Snapshot) Change {
	change := Change{
		Date:      newer.Timestamp,
		Additions: map[string]FileRecord{},
		Removals:  map[string]FileRecord{},
		Updates:   map[string]FileRecord{},
	}
	for path, record := range newer.Contents {
		previous, ok := older.Contents[path]
		switch {
		case !ok:
			change.Additions[path] = record
		case previous != record:
			change.Updates[path] = record
		}
	}
	for path, record := range older.Contents {
		if _, ok := newer.Contents[path]; !ok {
			change.Removals[path] = record
		}
	}
	return change
}

// Empty reports whether the change carries no additions, removals or
// updates. Empty changes are omitted from reports.
func (c Change) Empty() bool {
	return len(c.Additions) == 0 && len(c.Removals) == 0 && len(c.Updates) == 0
}
