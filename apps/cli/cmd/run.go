package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/cicheck/cicheck/packages/builtin"
	"github.com/cicheck/cicheck/packages/core/config"
	"github.com/cicheck/cicheck/packages/core/ruleset"
	"github.com/cicheck/cicheck/packages/core/runner"
	"github.com/cicheck/cicheck/packages/history"
	"github.com/cicheck/cicheck/packages/output"
)

var runCmd = &cobra.Command{
	Use:   "run [ruleset...]",
	Short: "Run checks from cicheck rulesets",
	Long: `Run checks declared in cicheck ruleset files against the repository.

Without arguments, cicheck looks for cicheck.yml (or .cicheck.yml) in the
current directory and falls back to the built-in Gradle CI ruleset.

Examples:
  cicheck run
  cicheck run cicheck.yml
  cicheck run --root ../service --output junit --output-file report.xml
  cicheck run --name trigger
  cicheck run --watch`,
	Args: cobra.ArbitraryArgs,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	nameFlag       string
	verboseFlag    int // 0=off, 1=-v, 2=-vv
	quietFlag      bool
	bailFlag       bool
	noColorFlag    bool
	outputFlag     string
	outputFileFlag string
	rootFlag       string
	watchFlag      bool
	configFlag     string
	historyDBFlag  string
)

func init() {
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only checks whose name contains the given substring")
	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v, -vv for more detail)")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("CICHECK_QUIET", false), "Suppress all output except errors (env: CICHECK_QUIET)")
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("CICHECK_BAIL", false), "Stop on first failing target (env: CICHECK_BAIL)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CICHECK_NO_COLOR", false), "Disable colored output (env: CICHECK_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("CICHECK_OUTPUT", "console"), "Output format: console, json, junit, tap (env: CICHECK_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("CICHECK_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: CICHECK_OUTPUT_FILE)")
	runCmd.Flags().StringVar(&rootFlag, "root", getEnvString("CICHECK_ROOT", ""), "Base directory target paths are resolved against (env: CICHECK_ROOT)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch rulesets and target files for changes and re-run checks")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("CICHECK_CONFIG", ""), "Path to config file (env: CICHECK_CONFIG)")
	runCmd.Flags().StringVar(&historyDBFlag, "history-db", getEnvString("CICHECK_HISTORY_DB", ""), "SQLite file to record run history in (env: CICHECK_HISTORY_DB)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// RulesetFilenames contains the ruleset file names tried when no argument
// is given.
var RulesetFilenames = []string{
	"cicheck.yml",
	".cicheck.yml",
	"cicheck.yaml",
	".cicheck.yaml",
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load config: %v\n", err)
		os.Exit(ExitConfigError)
	}
	cfg := applyFlagOverrides(cmd, fileConfig)

	// Setup output writer
	var outWriter *os.File
	if cfg.OutputFile != "" {
		outWriter, err = os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	newFormatter := func() Formatter {
		return buildFormatter(cfg, outWriter)
	}
	formatter := newFormatter()
	formatter.FormatHeader(version)

	rulesets, err := loadRulesets(args, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitRulesetError)
	}

	var store *history.Store
	if cfg.HistoryDB != "" {
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitConfigError)
		}
		defer store.Close()
	}

	r := runner.NewRunner(&runner.Config{
		Root:       cfg.Root,
		NameFilter: nameFlag,
		Bail:       cfg.GetBail(),
	})

	runChecks := func() (failed int, duration time.Duration) {
		start := time.Now()
		for _, rs := range rulesets {
			result := r.Run(rs)
			formatter.FormatResult(result)
			failed += result.Failed + result.Errored

			if store != nil {
				if _, err := store.Record(context.Background(), result, start); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to record run history: %v\n", err)
				}
			}

			if cfg.GetBail() && failed > 0 {
				break
			}
		}
		return failed, time.Since(start)
	}

	failed, duration := runChecks()

	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(duration); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	// If watch mode is not enabled, exit normally
	if !watchFlag {
		if failed > 0 {
			os.Exit(ExitCheckFailure)
		}
		return nil
	}

	// Watch mode: watch ruleset files and every target they reference
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := watchedPaths(rulesets, cfg.Root)
	watchedDirs := make(map[string]bool)
	for path := range watched {
		dir := filepath.Dir(path)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				formatter.FormatError(fmt.Errorf("failed to watch %s: %w", dir, err))
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) && watched[filepath.Clean(event.Name)] {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running checks...\n\n", event.Name)

					// Fresh formatter so accumulating formats start clean
					formatter = newFormatter()
					_, d := runChecks()
					if flushable, ok := formatter.(Flushable); ok {
						_ = flushable.Flush(d)
					}

					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			formatter.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

// applyFlagOverrides layers explicitly-set CLI flags over the file config.
func applyFlagOverrides(cmd *cobra.Command, fileConfig *config.Config) *config.Config {
	overrides := &config.Config{}
	if cmd.Flags().Changed("output") || fileConfig.Output == "" {
		overrides.Output = outputFlag
	}
	if cmd.Flags().Changed("output-file") {
		overrides.OutputFile = outputFileFlag
	}
	if cmd.Flags().Changed("root") {
		overrides.Root = rootFlag
	}
	if cmd.Flags().Changed("history-db") {
		overrides.HistoryDB = historyDBFlag
	}
	if cmd.Flags().Changed("no-color") || noColorFlag {
		v := noColorFlag
		overrides.NoColor = &v
	}
	if cmd.Flags().Changed("quiet") || quietFlag {
		v := quietFlag
		overrides.Quiet = &v
	}
	if cmd.Flags().Changed("bail") || bailFlag {
		v := bailFlag
		overrides.Bail = &v
	}
	if verboseFlag > 0 {
		v := true
		overrides.Verbose = &v
	}
	return fileConfig.Merge(overrides)
}

func buildFormatter(cfg *config.Config, outWriter *os.File) Formatter {
	var w io.Writer
	if outWriter != nil {
		w = outWriter
	}

	switch strings.ToLower(cfg.Output) {
	case "json":
		opts := []output.JSONOption{}
		if w != nil {
			opts = append(opts, output.JSONWithWriter(w))
		}
		return output.NewJSONFormatter(opts...)
	case "junit":
		opts := []output.JUnitOption{}
		if w != nil {
			opts = append(opts, output.JUnitWithWriter(w))
		}
		return output.NewJUnitFormatter(opts...)
	case "tap":
		opts := []output.TAPOption{}
		if w != nil {
			opts = append(opts, output.TAPWithWriter(w))
		}
		return output.NewTAPFormatter(opts...)
	default: // "console"
		opts := []output.ConsoleOption{
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor() || cfg.GetQuiet()),
		}
		if cfg.GetQuiet() {
			opts = append(opts, output.WithWriter(io.Discard))
		} else if w != nil {
			opts = append(opts, output.WithWriter(w))
		}
		return output.NewConsoleFormatter(opts...)
	}
}

// loadRulesets resolves ruleset files from args, default filenames, the
// config, or the built-in ruleset, in that priority order.
func loadRulesets(args []string, cfg *config.Config) ([]*ruleset.Ruleset, error) {
	paths := args
	if len(paths) == 0 && cfg.Ruleset != "" {
		paths = []string{cfg.Ruleset}
	}
	if len(paths) == 0 {
		for _, name := range RulesetFilenames {
			if _, err := os.Stat(name); err == nil {
				paths = []string{name}
				break
			}
		}
	}

	if len(paths) == 0 {
		rs, err := builtin.Default()
		if err != nil {
			return nil, fmt.Errorf("loading built-in ruleset: %w", err)
		}
		return []*ruleset.Ruleset{rs}, nil
	}

	var rulesets []*ruleset.Ruleset
	for _, path := range paths {
		rs, err := ruleset.ParseFile(path)
		if err != nil {
			return nil, err
		}
		rulesets = append(rulesets, rs)
	}
	return rulesets, nil
}

// watchedPaths returns the set of absolute paths a watch-mode run depends
// on: the ruleset files themselves plus every target they reference.
func watchedPaths(rulesets []*ruleset.Ruleset, root string) map[string]bool {
	watched := make(map[string]bool)
	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			watched[filepath.Clean(abs)] = true
		}
	}

	for _, rs := range rulesets {
		if rs.Path != "" {
			add(rs.Path)
		}
		for _, target := range rs.Targets {
			path := target.File
			if root != "" && !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			add(path)
		}
	}
	return watched
}
