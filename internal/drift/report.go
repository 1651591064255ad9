package drift

import (
	"sort"
	"strings"
)

// reportDateLayout is the format of the line opening each change block.
const reportDateLayout = "2006-01-02 15:04:05 UTC"

// FormatChange renders one change as a report block: a date line, then
// "+ path" lines for additions, "- path" lines for removals and
// "? path" lines for updates, each group sorted by path, closed by a
// blank separator line.
func FormatChange(change Change) string {
	var b strings.Builder
	b.WriteString(epochTime(change.Date).Format(reportDateLayout))
	b.WriteByte('\n')
	writeLines(&b, "+ ", change.Additions)
	writeLines(&b, "- ", change.Removals)
	writeLines(&b, "? ", change.Updates)
	b.WriteByte('\n')
	return b.String()
}

func writeLines(b *strings.Builder, marker string, records map[string]FileRecord) {
	for _, path := range sortedPaths(records) {
		b.WriteString(marker)
		b.WriteString(path)
		b.WriteByte('\n')
	}
}

func sortedPaths(records map[string]FileRecord) []string {
	paths := make([]string, 0, len(records))
	for path := range records {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// BuildReport walks the chronologically ordered snapshot history,
// applies the ignore filter to every snapshot, compares each
// consecutive pair and concatenates the non-empty change blocks. Fewer
// than two snapshots is simply a history with nothing to compare, so
// the report is empty.
func BuildReport(snapshots []*Snapshot, filter Filter) string {
	if len(snapshots) < 2 {
		return ""
	}
	var b strings.Builder
	previous := FilterSnapshot(snapshots[0], filter)
	for _, snapshot := range snapshots[1:] {
		current := FilterSnapshot(snapshot, filter)
		change := Compare(previous, current)
		if !change.Empty() {
			b.WriteString(FormatChange(change))
		}
		previous = current
	}
	return b.String()
}

// FilterSnapshot returns a view of the snapshot without the ignored
// paths. Snapshots are stored unfiltered and filtered only when read
// back, so changing the ignore list retroactively changes what old
// records contribute to a report. The input snapshot is not modified.
func FilterSnapshot(snapshot *Snapshot, filter Filter) *Snapshot {
	if filter == nil {
		return snapshot
	}
	contents := make(map[string]FileRecord, len(snapshot.Contents))
	for path, record := range snapshot.Contents {
		if filter.Includes(path) {
			contents[path] = record
		}
	}
	return &Snapshot{
		Identifier: snapshot.Identifier,
		Timestamp:  snapshot.Timestamp,
		Contents:   contents,
	}
}
