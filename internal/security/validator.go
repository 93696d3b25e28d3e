// Package security gates every physical deletion behind a
// canonicalize-then-deny-list check. The deny-list is fixed at compile
// time and cannot be widened or narrowed by configuration.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrProtectedPath marks a rejection caused by the protected-root
// deny-list or by a residual parent-traversal segment.
var ErrProtectedPath = errors.New("path is protected from deletion")

// protectedRoots are filesystem locations this tool refuses to touch:
// system binaries, libraries, configuration, variable state, kernel
// interfaces, and the macOS system trees. The filesystem root is
// rejected by equality; everything else by equality or nesting.
var protectedRoots = []string{
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/lib",
	"/lib64",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/usr",
	"/var",
	"/System",
	"/Library/System",
}

// Validator rejects deletion targets that resolve into protected
// filesystem locations. The zero value is not usable; construct with
// NewValidator.
type Validator struct {
	protected []string
}

// NewValidator returns a Validator carrying the fixed deny-list.
func NewValidator() *Validator {
	return &Validator{protected: protectedRoots}
}

// Check canonicalizes path and rejects it when the canonical form is a
// protected root or nested under one. It is called once per item
// immediately before the physical removal, never once per plan, so a
// target that vanished between planning and execution surfaces here as
// a resolution error for that item alone.
//
// The check is identical for files and directories.
func (v *Validator) Check(path string) error {
	canonical, err := Canonicalize(path)
	if err != nil {
		return fmt.Errorf("cannot resolve %s: %w", path, err)
	}

	if canonical == "/" {
		return fmt.Errorf("%w: %s", ErrProtectedPath, canonical)
	}
	for _, root := range v.protected {
		if canonical == root || strings.HasPrefix(canonical, root+"/") {
			return fmt.Errorf("%w: %s is under %s", ErrProtectedPath, canonical, root)
		}
	}

	// Canonicalization already removed traversal segments; if one is
	// still present something upstream went badly wrong.
	if containsDotDot(canonical) {
		return fmt.Errorf("%w: %s contains a parent-traversal segment", ErrProtectedPath, path)
	}

	return nil
}

// Canonicalize resolves path to an absolute form with symlinks and
// relative segments eliminated. It fails when the path no longer
// exists.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}

func containsDotDot(path string) bool {
	sep := string(filepath.Separator)
	return path == ".." ||
		strings.Contains(path, sep+".."+sep) ||
		strings.HasSuffix(path, sep+"..") ||
		strings.HasPrefix(path, ".."+sep)
}
