package cleaner

import (
	"os"

	"github.com/xjiaxiang/build-cleaner/internal/scanner"
	"github.com/xjiaxiang/build-cleaner/internal/security"
)

// Decision is the answer of an interactive confirmation for one
// pending item.
type Decision int

const (
	// DecisionProceed removes this item.
	DecisionProceed Decision = iota
	// DecisionSkip leaves this item untouched and moves on.
	DecisionSkip
	// DecisionProceedAll removes this item and every remaining one
	// without asking again, for the rest of this run.
	DecisionProceedAll
	// DecisionAbort stops the run. Already-removed items stay
	// removed; there is no rollback.
	DecisionAbort
)

// DecisionFunc is consulted before each pending item's removal. It
// receives the item's path, whether it is a directory, and its size in
// bytes.
type DecisionFunc func(path string, isDir bool, size int64) Decision

// FailedItem is one item that could not be removed, with a
// human-readable cause.
type FailedItem struct {
	Path  string `json:"path" yaml:"path"`
	Cause string `json:"cause" yaml:"cause"`
}

// DeleteResult is the outcome of one execution. TotalSize is the bytes
// actually freed, or in dry-run mode the bytes that would be freed.
type DeleteResult struct {
	DeletedFiles []string
	DeletedDirs  []string
	FailedFiles  []FailedItem
	FailedDirs   []FailedItem
	TotalSize    int64
}

// Executor applies a DeletePlan. Every item passes the safety
// validator immediately before its physical removal; the validator is
// not consultable or overridable by configuration.
type Executor struct {
	validator *security.Validator
	remover   Remover
	decide    DecisionFunc
}

// NewExecutor creates an Executor using the given removal capability.
func NewExecutor(remover Remover) *Executor {
	return &Executor{
		validator: security.NewValidator(),
		remover:   remover,
	}
}

// SetDecisionFunc installs an interactive confirmation hook. A nil
// hook means every item proceeds.
func (e *Executor) SetDecisionFunc(fn DecisionFunc) {
	e.decide = fn
}

// Execute applies the plan.
//
// In dry-run mode nothing is touched: every planned item is reported
// as deleted and TotalSize is taken from the plan's precomputed total,
// so the expensive directory sub-walks from the search are never
// repeated.
//
// In real mode files are processed first, then directories in planner
// order. Each item independently goes Pending -> safety check ->
// Deleted or Failed; a failure is recorded and the loop continues. The
// only error Execute itself returns is ErrCancelled, when the decision
// function aborts the run.
func (e *Executor) Execute(plan *DeletePlan, dryRun bool) (*DeleteResult, error) {
	result := &DeleteResult{}

	if dryRun {
		result.DeletedFiles = append(result.DeletedFiles, plan.Files...)
		result.DeletedDirs = append(result.DeletedDirs, plan.Dirs...)
		result.TotalSize = plan.TotalSize
		return result, nil
	}

	acceptAll := false

	for _, file := range plan.Files {
		size := fileSize(file)

		switch e.decision(file, false, size, &acceptAll) {
		case DecisionSkip:
			continue
		case DecisionAbort:
			return result, ErrCancelled
		}

		if err := e.validator.Check(file); err != nil {
			result.FailedFiles = append(result.FailedFiles, failed(file, err))
			continue
		}
		if err := e.remover.RemoveFile(file); err != nil {
			result.FailedFiles = append(result.FailedFiles, failed(file, err))
			continue
		}
		result.DeletedFiles = append(result.DeletedFiles, file)
		result.TotalSize += size
	}

	for _, dir := range plan.Dirs {
		size := scanner.DirSize(dir)

		switch e.decision(dir, true, size, &acceptAll) {
		case DecisionSkip:
			continue
		case DecisionAbort:
			return result, ErrCancelled
		}

		if err := e.validator.Check(dir); err != nil {
			result.FailedDirs = append(result.FailedDirs, failed(dir, err))
			continue
		}
		if err := e.remover.RemoveDir(dir); err != nil {
			result.FailedDirs = append(result.FailedDirs, failed(dir, err))
			continue
		}
		result.DeletedDirs = append(result.DeletedDirs, dir)
		result.TotalSize += size
	}

	return result, nil
}

// decision consults the installed hook for one item, latching
// unconditional-proceed mode when the hook answers ProceedAll.
func (e *Executor) decision(path string, isDir bool, size int64, acceptAll *bool) Decision {
	if e.decide == nil || *acceptAll {
		return DecisionProceed
	}
	d := e.decide(path, isDir, size)
	if d == DecisionProceedAll {
		*acceptAll = true
		return DecisionProceed
	}
	return d
}

func failed(path string, err error) FailedItem {
	return FailedItem{Path: path, Cause: Categorize(path, err).Cause()}
}

// fileSize reads the size of a file without following symlinks. A
// vanished file contributes zero; the safety check will report it.
func fileSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
