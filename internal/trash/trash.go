// Package trash provides recoverable removal: instead of unlinking,
// items are moved into an XDG-style trash directory together with a
// .trashinfo record naming their origin, so a user can restore them by
// hand. It implements the executor's Remover capability.
package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Trash moves items into a files/ directory and records their origin
// under info/.
type Trash struct {
	filesDir string
	infoDir  string
}

// New opens the user's trash under $XDG_DATA_HOME/Trash, falling back
// to ~/.local/share/Trash.
func New() (*Trash, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate trash directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return NewAt(filepath.Join(dataHome, "Trash"))
}

// NewAt opens (creating if needed) a trash rooted at dir.
func NewAt(dir string) (*Trash, error) {
	t := &Trash{
		filesDir: filepath.Join(dir, "files"),
		infoDir:  filepath.Join(dir, "info"),
	}
	for _, d := range []string{t.filesDir, t.infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return nil, fmt.Errorf("cannot create trash directory: %w", err)
		}
	}
	return t, nil
}

// RemoveFile implements cleaner.Remover by moving the file into the
// trash.
func (t *Trash) RemoveFile(path string) error { return t.put(path) }

// RemoveDir implements cleaner.Remover by moving the whole directory
// into the trash.
func (t *Trash) RemoveDir(path string) error { return t.put(path) }

// put moves path into files/ under a collision-free name and writes
// the matching .trashinfo record. Moving is a rename, so the trash
// must live on the same filesystem as the items it receives.
func (t *Trash) put(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	name := t.uniqueName(filepath.Base(abs))
	target := filepath.Join(t.filesDir, name)

	if err := t.writeInfo(name, abs); err != nil {
		return err
	}
	if err := os.Rename(abs, target); err != nil {
		os.Remove(t.infoPath(name))
		return err
	}
	return nil
}

// uniqueName finds a name not yet used in files/, suffixing a counter
// on collision.
func (t *Trash) uniqueName(base string) string {
	name := base
	for n := 1; ; n++ {
		if _, err := os.Lstat(filepath.Join(t.filesDir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s.%d", base, n)
	}
}

func (t *Trash) infoPath(name string) string {
	return filepath.Join(t.infoDir, name+".trashinfo")
}

func (t *Trash) writeInfo(name, origin string) error {
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		origin, time.Now().Format("2006-01-02T15:04:05"))
	return os.WriteFile(t.infoPath(name), []byte(content), 0o600)
}
