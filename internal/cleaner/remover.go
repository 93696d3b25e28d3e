package cleaner

import "os"

// Remover is the capability that physically removes an item. The
// executor stays agnostic of whether removal is permanent or
// recoverable; the caller picks the implementation.
type Remover interface {
	RemoveFile(path string) error
	RemoveDir(path string) error
}

// PermanentRemover deletes items irrecoverably.
type PermanentRemover struct{}

// RemoveFile implements Remover.
func (PermanentRemover) RemoveFile(path string) error { return os.Remove(path) }

// RemoveDir implements Remover. Directory removal is recursive.
func (PermanentRemover) RemoveDir(path string) error { return os.RemoveAll(path) }
