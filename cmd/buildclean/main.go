package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xjiaxiang/build-cleaner/internal/cleaner"
	"github.com/xjiaxiang/build-cleaner/internal/config"
	"github.com/xjiaxiang/build-cleaner/internal/logging"
	"github.com/xjiaxiang/build-cleaner/internal/progress"
	"github.com/xjiaxiang/build-cleaner/internal/reporter"
	"github.com/xjiaxiang/build-cleaner/internal/scanner"
	"github.com/xjiaxiang/build-cleaner/internal/trash"
	"github.com/xjiaxiang/build-cleaner/internal/ui"
)

var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath    string
	cleanPatterns []string
	excludePaths  []string
	dryRun        bool
	interactive   bool
	force         bool
	useTrash      bool
	showProgress  bool
	quiet         bool
	verbose       bool
	outputFmt     string
	outputFile    string
	logFile       string
)

var logger = logging.NewDiscard()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "buildclean [paths...]",
	Short: "Batch cleaner for build and cache artifacts",
	Long: `buildclean finds and removes build artifacts and dependency caches
(node_modules, target, dist, *.log, ...) beneath one or more project
roots, with size/age filters, exclusions, a dry-run preview and a
non-overridable protected-path safety net.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logFile != "" {
			logger = logging.NewFileLogger(logFile)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Find cleanup targets without deleting anything",
	Long:  `Scans the given roots and reports what would be cleaned, without touching the filesystem.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		roots, cfg, err := prepare(args)
		if err != nil {
			return err
		}

		result, err := runSearch(roots, cfg)
		if err != nil {
			return err
		}
		logger.Printf("scan: %d dirs / %d files scanned, %d folders / %d files matched",
			result.TotalDirsScanned, result.TotalFilesScanned,
			len(result.Folders), len(result.Files))

		// A dry-run execution turns the search into reportable results
		// without mutating anything.
		plan := cleaner.BuildPlan(result)
		delResult, err := cleaner.NewExecutor(cleaner.PermanentRemover{}).Execute(plan, true)
		if err != nil {
			return err
		}

		stats := reporter.Collect(result, delResult, started)
		if err := writeReport(stats, delResult); err != nil {
			return err
		}
		if !quiet {
			fmt.Println("ℹ️  Run 'buildclean clean' to actually delete these items")
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [paths...]",
	Short: "Delete cleanup targets under the given roots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		roots, cfg, err := prepare(args)
		if err != nil {
			return err
		}

		result, err := runSearch(roots, cfg)
		if err != nil {
			return err
		}

		if len(result.Folders) == 0 && len(result.Files) == 0 {
			if !quiet {
				fmt.Println("✨ Nothing to clean up")
			}
			return nil
		}

		plan := cleaner.BuildPlan(result)

		if !force && !dryRun && !interactive {
			question := fmt.Sprintf("Found %d directories and %d files to delete. Proceed?",
				len(plan.Dirs), len(plan.Files))
			if !ui.Confirm(os.Stdin, os.Stdout, question) {
				fmt.Println("Operation cancelled.")
				return nil
			}
		}

		exec := cleaner.NewExecutor(pickRemover())
		if interactive && !dryRun {
			exec.SetDecisionFunc(ui.NewPrompt(os.Stdin, os.Stdout))
		}

		delResult, execErr := exec.Execute(plan, dryRun)
		logger.Printf("clean: deleted %d files / %d dirs, failed %d files / %d dirs, freed %d bytes",
			len(delResult.DeletedFiles), len(delResult.DeletedDirs),
			len(delResult.FailedFiles), len(delResult.FailedDirs), delResult.TotalSize)

		stats := reporter.Collect(result, delResult, started)
		if err := writeReport(stats, delResult); err != nil {
			return err
		}

		if execErr != nil {
			if errors.Is(execErr, cleaner.ErrCancelled) {
				fmt.Println("Operation cancelled; items already removed stay removed.")
				return nil
			}
			return execErr
		}

		if !quiet && (stats.FilesFailed > 0 || stats.DirsFailed > 0) {
			fmt.Fprintf(os.Stderr, "Warning: some items failed to delete: %d files, %d directories\n",
				stats.FilesFailed, stats.DirsFailed)
		}
		if !quiet && dryRun {
			fmt.Println("ℹ️  Dry-run mode: nothing was deleted")
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [paths...]",
	Short: "Generate a detailed cleanup-opportunity report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()

		roots, cfg, err := prepare(args)
		if err != nil {
			return err
		}

		result, err := runSearch(roots, cfg)
		if err != nil {
			return err
		}

		plan := cleaner.BuildPlan(result)
		delResult, err := cleaner.NewExecutor(cleaner.PermanentRemover{}).Execute(plan, true)
		if err != nil {
			return err
		}

		stats := reporter.Collect(result, delResult, started)
		return writeReport(stats, delResult)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringArrayVar(&cleanPatterns, "clean", nil,
		"cleanup pattern, repeatable (folders end with /, files use * and ?)")
	rootCmd.PersistentFlags().StringArrayVar(&excludePaths, "exclude", nil,
		"path to exclude from scanning, repeatable")
	rootCmd.PersistentFlags().BoolVar(&showProgress, "progress", false, "show a live progress display while scanning")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "detailed output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write a rotating debug log to this file")

	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without deleting")
	cleanCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "confirm every item before deleting it")
	cleanCmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	cleanCmd.Flags().BoolVar(&useTrash, "trash", false, "move items to the trash instead of deleting permanently")

	for _, cmd := range []*cobra.Command{scanCmd, cleanCmd, reportCmd} {
		cmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")
		cmd.Flags().StringVar(&outputFile, "file", "", "save the report to a file instead of stdout")
	}

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(reportCmd)
}

// prepare expands and validates the root paths and assembles the
// effective configuration for them.
func prepare(args []string) ([]string, *config.Config, error) {
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		root := config.ExpandPath(arg)
		if err := config.ValidateRoot(root); err != nil {
			return nil, nil, err
		}
		roots = append(roots, root)
	}

	base := config.DefaultForRoot(roots[0])

	var fileCfg *config.Config
	if configPath != "" {
		var err error
		fileCfg, err = config.Load(config.ExpandPath(configPath))
		if err != nil {
			return nil, nil, err
		}
	}

	cfg := config.Merge(base, fileCfg, cleanPatterns)
	cfg.Exclude = append(cfg.Exclude, excludePaths...)
	cfg.NormalizeExcludes()

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return roots, cfg, nil
}

func runSearch(roots []string, cfg *config.Config) (*scanner.SearchResult, error) {
	if showProgress && !quiet {
		return ui.RunScan("Scanning for cleanup targets...",
			func(notifier progress.Notifier) (*scanner.SearchResult, error) {
				return scanner.SearchWithProgress(roots, cfg, notifier)
			})
	}
	if !quiet {
		fmt.Println("🔍 Scanning for files to clean...")
	}
	return scanner.Search(roots, cfg)
}

func pickRemover() cleaner.Remover {
	if !useTrash {
		return cleaner.PermanentRemover{}
	}
	t, err := trash.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: trash unavailable (%v), deleting permanently\n", err)
		return cleaner.PermanentRemover{}
	}
	return t
}

func writeReport(stats reporter.Stats, delResult *cleaner.DeleteResult) error {
	format := reporter.OutputFormat(outputFmt)
	if verbose && format == reporter.FormatSummary {
		format = reporter.FormatTable
	}
	if outputFile != "" {
		if err := reporter.SaveToFile(stats, delResult, outputFile, format); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		if !quiet {
			fmt.Printf("Report saved to: %s\n", outputFile)
		}
		return nil
	}
	if quiet {
		return nil
	}
	return reporter.New(os.Stdout, format).Report(stats, delResult)
}
