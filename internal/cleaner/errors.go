package cleaner

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/xjiaxiang/build-cleaner/internal/security"
)

// ErrCancelled is returned by Execute when the decision function
// aborts the run. Items removed before the abort stay removed.
var ErrCancelled = errors.New("cleanup cancelled by user")

// Reason categorizes why a deletion failed.
type Reason int

const (
	ReasonNotFound Reason = iota
	ReasonPermissionDenied
	ReasonFileInUse
	ReasonSafetyRejected
	ReasonCancelled
	ReasonUnknown
)

// String returns a human-readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "path not found"
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonFileInUse:
		return "file is in use"
	case ReasonSafetyRejected:
		return "rejected by safety check"
	case ReasonCancelled:
		return "cancelled"
	case ReasonUnknown:
		return "unknown error"
	default:
		return "unspecified error"
	}
}

// DeletionError is a categorized per-item deletion failure.
type DeletionError struct {
	Path     string
	Reason   Reason
	Original error
}

// Error implements the error interface.
func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap exposes the underlying error.
func (e *DeletionError) Unwrap() error { return e.Original }

// Cause returns the short human-readable cause recorded in the result
// lists.
func (e *DeletionError) Cause() string {
	if e.Original != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Original)
	}
	return e.Reason.String()
}

// Categorize maps an error from the safety check or the removal itself
// onto the failure taxonomy.
func Categorize(path string, err error) *DeletionError {
	delErr := &DeletionError{
		Path:     path,
		Reason:   ReasonUnknown,
		Original: err,
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, security.ErrProtectedPath):
		delErr.Reason = ReasonSafetyRejected
		return delErr
	case os.IsNotExist(err):
		delErr.Reason = ReasonNotFound
		return delErr
	case os.IsPermission(err):
		delErr.Reason = ReasonPermissionDenied
		return delErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			delErr.Reason = ReasonPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			delErr.Reason = ReasonFileInUse
		case syscall.ENOENT:
			delErr.Reason = ReasonNotFound
		}
	}

	return delErr
}
