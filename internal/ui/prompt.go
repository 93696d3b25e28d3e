package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/xjiaxiang/build-cleaner/internal/cleaner"
)

// NewPrompt returns a decision function that asks about every pending
// item on out and reads the answer from in. Answers: y deletes the
// item, n skips it, a deletes everything remaining without asking, q
// aborts the run. Anything else skips.
func NewPrompt(in io.Reader, out io.Writer) cleaner.DecisionFunc {
	reader := bufio.NewReader(in)

	return func(path string, isDir bool, size int64) cleaner.Decision {
		kind := "file"
		if isDir {
			kind = "directory"
		}
		fmt.Fprintf(out, "Delete %s %s (%s)? [y/n/a/q]: ",
			kind, path, humanize.IBytes(uint64(size)))

		line, err := reader.ReadString('\n')
		if err != nil {
			// No more input: treat like quit rather than deleting
			// unconfirmed items.
			fmt.Fprintln(out)
			return cleaner.DecisionAbort
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return cleaner.DecisionProceed
		case "a", "all":
			return cleaner.DecisionProceedAll
		case "q", "quit":
			return cleaner.DecisionAbort
		default:
			return cleaner.DecisionSkip
		}
	}
}

// Confirm asks a single yes/no question, defaulting to no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
