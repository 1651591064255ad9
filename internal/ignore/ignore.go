// Package ignore filters noise files out of snapshot comparison.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"driftwatch/internal/drift"
)

// Filter excludes paths whose final component is in a set of ignored
// basenames. Matching is exact, not glob: "a.swp" ignores only files
// literally named a.swp, anywhere in the tree. An empty set ignores
// nothing.
type Filter struct {
	basenames map[string]struct{}
}

// New creates a Filter from raw basename strings. Blank lines and lines
// starting with '#' are skipped, so New accepts ignore-file contents
// verbatim.
func New(basenames []string) *Filter {
	f := &Filter{basenames: map[string]struct{}{}}
	for _, raw := range basenames {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		f.basenames[raw] = struct{}{}
	}
	return f
}

// Load reads one basename per line from the ignore file at path and
// merges extra on top. A missing file is not an error: having no ignore
// file simply means nothing is ignored beyond extra.
func Load(path string, extra []string) (*Filter, error) {
	lines, err := parseIgnoreFile(path)
	if err != nil {
		return nil, err
	}
	return New(append(lines, extra...)), nil
}

// Includes reports whether the path participates in comparison: true
// unless its basename is in the ignored set.
func (f *Filter) Includes(path string) bool {
	if len(f.basenames) == 0 {
		return true
	}
	_, ignored := f.basenames[filepath.Base(path)]
	return !ignored
}

// Len returns the number of ignored basenames.
func (f *Filter) Len() int {
	return len(f.basenames)
}

var _ drift.Filter = (*Filter)(nil)

// parseIgnoreFile reads the raw lines of an ignore file.
// Returns nil and no error if the file does not exist.
func parseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return lines, nil
}
