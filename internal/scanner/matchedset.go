package scanner

import "sync"

// matchedSet records directories that matched a folder pattern during
// one walk. It grows monotonically: a path is added exactly once, at
// match time, and is only ever read afterwards by the prune filter.
//
// The walk is single-threaded today, but the set is written by the
// match step and read by the prune predicate of every later visit, so
// it is kept behind a mutex: if the walk is ever parallelized, a
// recorded prune decision must be immediately visible to every other
// visitor of that subtree.
type matchedSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newMatchedSet() *matchedSet {
	return &matchedSet{paths: make(map[string]struct{})}
}

// add records a matched folder path. Adding the same path twice is a
// no-op.
func (s *matchedSet) add(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[path] = struct{}{}
}

// covers reports whether path lies strictly beneath any recorded
// folder. The matched folder itself is not covered; it still has to be
// reported as a target.
func (s *matchedSet) covers(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for folder := range s.paths {
		if path != folder && isUnder(path, folder) {
			return true
		}
	}
	return false
}
