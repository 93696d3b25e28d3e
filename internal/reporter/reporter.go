// Package reporter formats search and deletion outcomes for humans
// and machines. The core hands over its result values verbatim; all
// text, emoji and unit formatting lives here.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/xjiaxiang/build-cleaner/internal/cleaner"
	"github.com/xjiaxiang/build-cleaner/internal/scanner"
)

// maxListedItems caps per-section path listings in detailed output.
const maxListedItems = 50

// OutputFormat selects a report rendering.
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// Stats aggregates one complete run.
type Stats struct {
	FilesScanned int           `json:"files_scanned" yaml:"files_scanned"`
	DirsScanned  int           `json:"dirs_scanned" yaml:"dirs_scanned"`
	FilesMatched int           `json:"files_matched" yaml:"files_matched"`
	DirsMatched  int           `json:"dirs_matched" yaml:"dirs_matched"`
	FilesDeleted int           `json:"files_deleted" yaml:"files_deleted"`
	DirsDeleted  int           `json:"dirs_deleted" yaml:"dirs_deleted"`
	FilesFailed  int           `json:"files_failed" yaml:"files_failed"`
	DirsFailed   int           `json:"dirs_failed" yaml:"dirs_failed"`
	SpaceFreed   int64         `json:"space_freed" yaml:"space_freed"`
	TimeTaken    time.Duration `json:"time_taken_ns" yaml:"time_taken_ns"`
}

// Collect builds Stats from a search result, a delete result and the
// run's start time.
func Collect(search *scanner.SearchResult, del *cleaner.DeleteResult, started time.Time) Stats {
	return Stats{
		FilesScanned: search.TotalFilesScanned,
		DirsScanned:  search.TotalDirsScanned,
		FilesMatched: len(search.Files),
		DirsMatched:  len(search.Folders),
		FilesDeleted: len(del.DeletedFiles),
		DirsDeleted:  len(del.DeletedDirs),
		FilesFailed:  len(del.FailedFiles),
		DirsFailed:   len(del.FailedDirs),
		SpaceFreed:   del.TotalSize,
		TimeTaken:    time.Since(started),
	}
}

// Reporter renders reports to an injected writer.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a Reporter.
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{writer: writer, format: format}
}

// Report renders the run in the reporter's format.
func (r *Reporter) Report(stats Stats, del *cleaner.DeleteResult) error {
	switch r.format {
	case FormatSummary:
		return r.reportSummary(stats)
	case FormatTable:
		return r.reportTable(stats, del)
	case FormatJSON:
		return r.reportJSON(stats, del)
	case FormatYAML:
		return r.reportYAML(stats, del)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportSummary(stats Stats) error {
	fmt.Fprintf(r.writer, "📊 Cleanup Report:\n")
	fmt.Fprintf(r.writer, "  Files scanned:       %d\n", stats.FilesScanned)
	fmt.Fprintf(r.writer, "  Directories scanned: %d\n", stats.DirsScanned)
	fmt.Fprintf(r.writer, "  Files matched:       %d\n", stats.FilesMatched)
	fmt.Fprintf(r.writer, "  Directories matched: %d\n", stats.DirsMatched)
	fmt.Fprintf(r.writer, "  Files deleted:       %d\n", stats.FilesDeleted)
	fmt.Fprintf(r.writer, "  Directories deleted: %d\n", stats.DirsDeleted)
	if stats.FilesFailed > 0 || stats.DirsFailed > 0 {
		fmt.Fprintf(r.writer, "  ⚠️  Failed:           %d files, %d directories\n",
			stats.FilesFailed, stats.DirsFailed)
	}
	fmt.Fprintf(r.writer, "  Space freed:         %s\n", humanize.IBytes(uint64(stats.SpaceFreed)))
	fmt.Fprintf(r.writer, "  Time taken:          %.2fs\n", stats.TimeTaken.Seconds())
	return nil
}

func (r *Reporter) reportTable(stats Stats, del *cleaner.DeleteResult) error {
	if err := r.reportSummary(stats); err != nil {
		return err
	}

	listPaths := func(header string, paths []string) {
		if len(paths) == 0 {
			return
		}
		fmt.Fprintf(r.writer, "\n%s\n", header)
		for i, p := range paths {
			if i == maxListedItems {
				fmt.Fprintf(r.writer, "   ... and %d more\n", len(paths)-maxListedItems)
				break
			}
			fmt.Fprintf(r.writer, "   - %s\n", p)
		}
	}
	listFailures := func(header string, items []cleaner.FailedItem) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(r.writer, "\n%s\n", header)
		for i, item := range items {
			if i == maxListedItems {
				fmt.Fprintf(r.writer, "   ... and %d more\n", len(items)-maxListedItems)
				break
			}
			fmt.Fprintf(r.writer, "   - %s (%s)\n", item.Path, item.Cause)
		}
	}

	listPaths("📁 Deleted Directories:", del.DeletedDirs)
	listPaths("📄 Deleted Files:", del.DeletedFiles)
	listFailures("❌ Failed Directories:", del.FailedDirs)
	listFailures("❌ Failed Files:", del.FailedFiles)
	return nil
}

// machineReport is the shape shared by the JSON and YAML renderings.
type machineReport struct {
	Timestamp           string               `json:"timestamp" yaml:"timestamp"`
	Stats               Stats                `json:"stats" yaml:"stats"`
	SpaceFreedFormatted string               `json:"space_freed_formatted" yaml:"space_freed_formatted"`
	DeletedFiles        []string             `json:"deleted_files" yaml:"deleted_files"`
	DeletedDirs         []string             `json:"deleted_dirs" yaml:"deleted_dirs"`
	FailedFiles         []cleaner.FailedItem `json:"failed_files" yaml:"failed_files"`
	FailedDirs          []cleaner.FailedItem `json:"failed_dirs" yaml:"failed_dirs"`
}

func buildMachineReport(stats Stats, del *cleaner.DeleteResult) machineReport {
	return machineReport{
		Timestamp:           time.Now().Format(time.RFC3339),
		Stats:               stats,
		SpaceFreedFormatted: humanize.IBytes(uint64(stats.SpaceFreed)),
		DeletedFiles:        del.DeletedFiles,
		DeletedDirs:         del.DeletedDirs,
		FailedFiles:         del.FailedFiles,
		FailedDirs:          del.FailedDirs,
	}
}

func (r *Reporter) reportJSON(stats Stats, del *cleaner.DeleteResult) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(buildMachineReport(stats, del))
}

func (r *Reporter) reportYAML(stats Stats, del *cleaner.DeleteResult) error {
	enc := yaml.NewEncoder(r.writer)
	defer enc.Close()
	return enc.Encode(buildMachineReport(stats, del))
}

// SaveToFile writes a report to path in the given format.
func SaveToFile(stats Stats, del *cleaner.DeleteResult, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return New(file, format).Report(stats, del)
}
