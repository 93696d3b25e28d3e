// Package scanner walks project roots looking for cleanup targets.
//
// The walk is sequential and prune-aware: once a directory matches a
// folder pattern it becomes a deletion target and nothing beneath it is
// ever enumerated again, counted or matched. Matched directories get
// their recursive size computed immediately by a dedicated sub-walk so
// reports and dry-runs never need a second pass.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/xjiaxiang/build-cleaner/internal/config"
	"github.com/xjiaxiang/build-cleaner/internal/pattern"
	"github.com/xjiaxiang/build-cleaner/internal/progress"
)

// SearchResult is the immutable outcome of one search.
//
// Folders are pairwise non-nested by construction and Files are never
// nested under any matched folder. TotalSize is the sum of matched file
// sizes plus the recursive sizes of matched folders, computed at match
// time. The scanned counters cover every visited entry, matched or
// not, excluding pruned and excluded ones.
type SearchResult struct {
	Folders           []string
	Files             []string
	TotalSize         int64
	TotalDirsScanned  int
	TotalFilesScanned int
}

// Search walks the given roots and collects everything the config
// marks for cleanup.
func Search(roots []string, cfg *config.Config) (*SearchResult, error) {
	return SearchWithProgress(roots, cfg, nil)
}

// SearchWithProgress is Search with an optional progress notifier. The
// notifier is invoked synchronously at a bounded frequency (every 1000
// files, every 100 directories, and on every folder match) with
// counters that never decrease across the walk.
func SearchWithProgress(roots []string, cfg *config.Config, notifier progress.Notifier) (*SearchResult, error) {
	w := &walker{
		cfg:      cfg,
		notifier: notifier,
		matched:  newMatchedSet(),
		result:   &SearchResult{},
	}
	if cfg.Options.FollowSymlinks {
		w.visited = make(map[string]struct{})
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve root %s: %w", root, err)
		}
		if err := config.ValidateRoot(abs); err != nil {
			return nil, err
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot access root %s: %w", root, err)
		}

		if w.excluded(abs) {
			continue
		}
		if info.IsDir() {
			w.visitDir(abs, 0)
		} else {
			w.visitFile(abs, info)
		}
	}

	return w.result, nil
}

// walker holds the mutable state of one search pass.
type walker struct {
	cfg      *config.Config
	notifier progress.Notifier
	matched  *matchedSet
	result   *SearchResult
	// visited guards against symlink cycles; only allocated when
	// follow_symlinks is enabled.
	visited map[string]struct{}
}

// visitDir processes one directory that already passed the exclude and
// prune filters: count it, test it against the folder patterns, and
// descend unless it matched or the depth policy forbids it.
func (w *walker) visitDir(path string, depth int) {
	w.result.TotalDirsScanned++

	if pattern.FolderMatch(w.cfg.Clean.Folders, filepath.Base(path)) {
		w.matched.add(path)
		w.result.Folders = append(w.result.Folders, path)
		w.result.TotalSize += DirSize(path)
		w.notify()
		return
	}

	if w.result.TotalDirsScanned%100 == 0 {
		w.notify()
	}

	if !w.descend(depth) {
		return
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		// Unreadable directory: counted above, contents skipped.
		return
	}

	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		// The prune filter runs per visited node, not only at the
		// recursion root: enumeration order is not guaranteed to be
		// strictly top-down once symlinks are followed.
		if w.excluded(child) || w.matched.covers(child) {
			continue
		}

		switch {
		case entry.IsDir():
			w.visitDir(child, depth+1)
		case entry.Type()&fs.ModeSymlink != 0:
			if !w.cfg.Options.FollowSymlinks {
				continue
			}
			w.visitSymlink(child, depth)
		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				continue
			}
			w.visitFile(child, info)
		}
	}
}

// visitSymlink resolves a symlink and visits its target, guarding
// against cycles through the visited set.
func (w *walker) visitSymlink(path string, depth int) {
	info, err := os.Stat(path)
	if err != nil {
		// Broken link, skip silently.
		return
	}

	if info.IsDir() {
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return
		}
		if _, seen := w.visited[real]; seen {
			return
		}
		w.visited[real] = struct{}{}
		w.visitDir(path, depth+1)
		return
	}
	if info.Mode().IsRegular() {
		w.visitFile(path, info)
	}
}

// visitFile processes one file that already passed the exclude and
// prune filters: count it, apply the size/age bounds, then the glob
// patterns.
func (w *walker) visitFile(path string, info fs.FileInfo) {
	w.result.TotalFilesScanned++

	size := info.Size()
	if w.sizeInBounds(size) && w.ageInBounds(info.ModTime()) {
		if pattern.FileMatch(w.cfg.Clean.Files, filepath.Base(path)) {
			w.result.Files = append(w.result.Files, path)
			w.result.TotalSize += size
		}
	}

	if w.result.TotalFilesScanned%1000 == 0 {
		w.notify()
	}
}

// descend reports whether the walk may enumerate the children of a
// directory at the given depth. Depth 0 is the root itself.
func (w *walker) descend(depth int) bool {
	if !w.cfg.Options.Recursive {
		return depth < 1
	}
	if w.cfg.Options.MaxDepth != nil {
		return depth < *w.cfg.Options.MaxDepth
	}
	return true
}

// excluded reports whether path is equal to or nested under any
// configured exclude path.
func (w *walker) excluded(path string) bool {
	for _, ex := range w.cfg.Exclude {
		if path == ex || isUnder(path, ex) {
			return true
		}
	}
	return false
}

func (w *walker) sizeInBounds(size int64) bool {
	if w.cfg.Options.MinSize != nil && size < *w.cfg.Options.MinSize {
		return false
	}
	if w.cfg.Options.MaxSize != nil && size > *w.cfg.Options.MaxSize {
		return false
	}
	return true
}

func (w *walker) ageInBounds(modTime time.Time) bool {
	minAge := w.cfg.Options.MinAgeDays
	maxAge := w.cfg.Options.MaxAgeDays
	if minAge == nil && maxAge == nil {
		return true
	}

	ageDays := int(time.Since(modTime).Hours() / 24)
	if minAge != nil && ageDays < *minAge {
		return false
	}
	if maxAge != nil && ageDays > *maxAge {
		return false
	}
	return true
}

func (w *walker) notify() {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(progress.ScanUpdate{
		FilesScanned: w.result.TotalFilesScanned,
		DirsScanned:  w.result.TotalDirsScanned,
		FilesMatched: len(w.result.Files),
		DirsMatched:  len(w.result.Folders),
		TotalSize:    w.result.TotalSize,
	})
}

// DirSize sums the sizes of every regular file transitively under dir.
// Unreadable entries contribute nothing; the sub-walk never fails.
// This runs once per matched directory, independent of the outer
// walk's pruning state, so reported sizes are accurate the moment a
// directory matches.
func DirSize(dir string) int64 {
	var total int64
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}

// isUnder reports whether path is strictly nested under parent.
func isUnder(path, parent string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != "" && !filepath.IsAbs(rel) && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
