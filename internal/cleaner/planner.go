// Package cleaner turns a search result into an ordered deletion plan
// and executes it item by item, dry-run or for real, behind the safety
// validator. Partial failure is the expected case: one item failing
// never stops the rest of the plan.
package cleaner

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/xjiaxiang/build-cleaner/internal/scanner"
)

// DeletePlan is the deterministic, ordered deletion list derived from
// a search result. Files pass through verbatim; Dirs are sorted
// deepest-first. TotalSize carries the search's precomputed byte total
// so a dry-run never re-walks anything.
type DeletePlan struct {
	Files     []string
	Dirs      []string
	TotalSize int64
}

// BuildPlan derives a DeletePlan from a search result. It is a pure
// function: the result is never mutated and the same input always
// yields the same plan.
//
// Directories are ordered by descending path-component count. Removal
// is recursive today, but deepest-first keeps execution and report
// order reproducible and stays correct should removal ever become
// non-recursive, child-first.
func BuildPlan(result *scanner.SearchResult) *DeletePlan {
	plan := &DeletePlan{
		Files:     append([]string(nil), result.Files...),
		Dirs:      append([]string(nil), result.Folders...),
		TotalSize: result.TotalSize,
	}

	sort.SliceStable(plan.Dirs, func(i, j int) bool {
		return pathDepth(plan.Dirs[i]) > pathDepth(plan.Dirs[j])
	})

	return plan
}

// pathDepth counts the path components of a cleaned path.
func pathDepth(path string) int {
	clean := filepath.Clean(path)
	if clean == string(filepath.Separator) {
		return 1
	}
	return len(strings.Split(clean, string(filepath.Separator)))
}
