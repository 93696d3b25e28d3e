// Package testutil provides test helpers and fixtures. All file
// operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFixture builds throwaway project trees under a temp root.
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a fixture rooted in a fresh temp directory.
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{T: t, RootDir: t.TempDir()}
}

// Path returns the full path for a relative path within the fixture.
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateFile creates a file with the given content, making parent
// directories as needed, and returns its path.
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateFileWithAge creates a file and backdates its modification time.
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)
	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateDir creates a directory (and parents) and returns its path.
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateSymlink creates a symbolic link at relPath pointing to target.
func (f *TestFixture) CreateSymlink(target, relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullPath, target, err)
	}
	return fullPath
}

// FileExists reports whether path exists.
func (f *TestFixture) FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// AssertFileExists fails the test if the path does not exist.
func (f *TestFixture) AssertFileExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected file to exist: %s", path)
	}
}

// AssertFileNotExists fails the test if the path exists.
func (f *TestFixture) AssertFileNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected file to not exist: %s", path)
	}
}
