// Package pattern implements the name matching rules used to decide
// whether a directory or file is a cleanup target.
//
// Two kinds of patterns exist:
//   - folder patterns end with a path separator ("node_modules/") and
//     match a directory base name exactly, no wildcards
//   - file patterns are globs over the base name only, supporting
//     '*' (any run of characters) and '?' (exactly one character)
package pattern

import "strings"

// IsFolderPattern reports whether the pattern targets a directory.
// Folder patterns carry a trailing separator.
func IsFolderPattern(pattern string) bool {
	return strings.HasSuffix(pattern, "/")
}

// Match reports whether name satisfies pattern. A folder pattern is
// compared for exact equality after stripping the trailing separator;
// anything else is treated as a glob over the base name.
func Match(pattern, name string) bool {
	if IsFolderPattern(pattern) {
		return strings.TrimRight(pattern, "/") == name
	}
	return Glob(pattern, name)
}

// MatchAny tests name against patterns in configured order and returns
// true on the first pattern that matches.
func MatchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if Match(p, name) {
			return true
		}
	}
	return false
}

// FolderMatch tests a directory base name against folder patterns in
// configured order. Folder matching is exact equality; a trailing
// separator on the pattern is tolerated either way.
func FolderMatch(patterns []string, name string) bool {
	for _, p := range patterns {
		if strings.TrimRight(p, "/") == name {
			return true
		}
	}
	return false
}

// FileMatch tests a file base name against glob patterns in configured
// order, first match wins.
func FileMatch(patterns []string, name string) bool {
	for _, p := range patterns {
		if Glob(p, name) {
			return true
		}
	}
	return false
}

// Glob matches text against a glob pattern supporting '*' and '?'.
// The match only succeeds when both pattern and text are exhausted
// together, so "*.log" does not match "app.log.1".
func Glob(pattern, text string) bool {
	return globMatch([]rune(pattern), []rune(text), 0, 0)
}

// globMatch is a backtracking matcher: at a '*' it tries every possible
// consumption length of the remaining text, at '?' or a literal it
// consumes exactly one rune. Adequate for file names; swap in a DP
// matcher if patterns ever grow pathological.
func globMatch(pattern, text []rune, pi, ti int) bool {
	if pi >= len(pattern) {
		return ti >= len(text)
	}

	switch pattern[pi] {
	case '*':
		for i := ti; i <= len(text); i++ {
			if globMatch(pattern, text, pi+1, i) {
				return true
			}
		}
		return false
	case '?':
		if ti < len(text) {
			return globMatch(pattern, text, pi+1, ti+1)
		}
		return false
	default:
		if ti < len(text) && text[ti] == pattern[pi] {
			return globMatch(pattern, text, pi+1, ti+1)
		}
		return false
	}
}
