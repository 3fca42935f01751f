package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/volt/packages/core/config"
	"github.com/abdul-hamid-achik/volt/packages/core/runner"
	"github.com/abdul-hamid-achik/volt/packages/output"
	"github.com/abdul-hamid-achik/volt/packages/suite"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var assertCmd = &cobra.Command{
	Use:   "assert <suite|directory>...",
	Short: "Check recorded responses against their assertions",
	Long: `Check recorded HTTP responses against declarative assertions.

A suite file (*.suite.yaml, *.suite.yml or *.suite.json) holds cases, each
with a recorded response and the assertions it must satisfy. Directories
are searched recursively for suite files.

Examples:
  volt assert ./suites/
  volt assert users.suite.yaml --env staging --var userId=42
  volt assert ./suites/ -o junit --output-file report.xml
  volt assert ./suites/ --name "create*" --bail
  volt assert ./suites/ --watch`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: assertCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	assertVars      variableFlags
	nameFlag        string
	verboseFlag     bool
	bailFlag        bool
	parallelFlag    bool
	concurrencyFlag int
	outputFlag      string
	outputFileFlag  string
	watchFlag       bool
)

func init() {
	assertVars.register(assertCmd)
	assertCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Only run cases matching name pattern (* wildcards)")
	assertCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("VOLT_VERBOSE", false), "Show passing assertions and response status (env: VOLT_VERBOSE)")
	assertCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("VOLT_BAIL", false), "Stop on first failure (env: VOLT_BAIL)")
	assertCmd.Flags().BoolVarP(&parallelFlag, "parallel", "p", getEnvBool("VOLT_PARALLEL", false), "Evaluate cases in parallel (env: VOLT_PARALLEL)")
	assertCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("VOLT_CONCURRENCY", runner.DefaultConcurrency), "Number of concurrent cases (env: VOLT_CONCURRENCY)")
	assertCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("VOLT_OUTPUT", "console"), "Output format: console, json, junit, tap (env: VOLT_OUTPUT)")
	assertCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("VOLT_OUTPUT_FILE", ""), "Write output to file (env: VOLT_OUTPUT_FILE)")
	assertCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run when suite files change")
}

// assertSettings is the effective configuration after flags override the
// config file.
type assertSettings struct {
	format     string
	outputFile string
	verbose    bool
	noColor    bool
}

func resolveAssertSettings(cmd *cobra.Command, cfg *config.Config) (assertSettings, *runner.Config) {
	flags := cmd.Flags()

	s := assertSettings{
		format:     outputFlag,
		outputFile: outputFileFlag,
		verbose:    verboseFlag,
		noColor:    noColorFlag || cfg.GetNoColor(),
	}
	if !flags.Changed("output") && os.Getenv("VOLT_OUTPUT") == "" && cfg.Output != "" {
		s.format = cfg.Output
	}
	if !flags.Changed("output-file") && s.outputFile == "" && cfg.OutputFile != "" {
		s.outputFile = cfg.ResolvePath(cfg.OutputFile)
	}
	if !flags.Changed("verbose") && cfg.Verbose != nil {
		s.verbose = cfg.GetVerbose()
	}

	rc := &runner.Config{
		Verbose:     s.verbose,
		Bail:        bailFlag,
		NameFilter:  nameFlag,
		Parallel:    parallelFlag,
		Concurrency: concurrencyFlag,
	}
	if !flags.Changed("bail") && cfg.Bail != nil {
		rc.Bail = cfg.GetBail()
	}
	if !flags.Changed("parallel") && cfg.Parallel != nil {
		rc.Parallel = cfg.GetParallel()
	}
	if !flags.Changed("concurrency") && cfg.Concurrency > 0 {
		rc.Concurrency = cfg.Concurrency
	}
	return s, rc
}

func assertCommand(cmd *cobra.Command, args []string) error {
	settings, rc := resolveAssertSettings(cmd, fileConfig)
	if !output.IsValidFormat(settings.format) {
		return withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", settings.format))
	}

	vars, err := assertVars.resolve(fileConfig)
	if err != nil {
		return err
	}
	rc.Variables = vars

	var outWriter io.Writer = cmd.OutOrStdout()
	if settings.outputFile != "" {
		f, err := os.Create(settings.outputFile)
		if err != nil {
			return withExitCode(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer f.Close()
		outWriter = f
	}

	newFormatter := func() output.Formatter {
		return output.New(output.Options{
			Format:  settings.format,
			Writer:  outWriter,
			Verbose: settings.verbose,
			NoColor: settings.noColor,
		})
	}

	files, err := suite.Collect(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no suite files found"))
	}

	r := runner.NewRunner(rc)

	runSuites := func() runTotals {
		formatter := newFormatter()
		formatter.FormatHeader(version)

		totals := runTotals{}
		startTime := time.Now()

		for _, file := range files {
			result, err := r.RunFile(file)
			if err != nil {
				formatter.FormatError(err)
				totals.loadErrors++
				if rc.Bail {
					break
				}
				continue
			}

			formatter.FormatResult(result)
			totals.passed += result.Passed
			totals.failed += result.Failed
			totals.skipped += result.Skipped

			if rc.Bail && result.Failed > 0 {
				break
			}
		}

		if flushable, ok := formatter.(output.Flushable); ok {
			if err := flushable.Flush(time.Since(startTime)); err != nil {
				formatter.FormatError(fmt.Errorf("error writing output: %w", err))
			}
		}
		return totals
	}

	totals := runSuites()

	if !watchFlag {
		return totals.err()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchSuites(ctx, cmd.OutOrStdout(), args, files, func() { runSuites() })
}

type runTotals struct {
	passed     int
	failed     int
	skipped    int
	loadErrors int
}

// err maps the totals to the command's exit status. Output formatters have
// already reported the details.
func (t runTotals) err() error {
	if t.loadErrors > 0 {
		return withExitCode(ExitParseError, nil)
	}
	if t.failed > 0 {
		return withExitCode(ExitTestFailure, nil)
	}
	return nil
}

// watchSuites re-runs rerun whenever a suite file under the watched
// directories is written, until ctx is cancelled.
func watchSuites(ctx context.Context, w io.Writer, args, files []string, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, dir := range watchDirs(args, files) {
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(w, "failed to watch %s: %v\n", dir, err)
		}
		watched[dir] = true
	}

	explicit := make(map[string]bool, len(files))
	for _, f := range files {
		explicit[filepath.Clean(f)] = true
	}

	fmt.Fprintf(w, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	trigger := make(chan string, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !suite.IsSuiteFile(event.Name) && !explicit[filepath.Clean(event.Name)] {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case trigger <- name:
				default:
				}
			})

		case name := <-trigger:
			fmt.Fprintf(w, "\n\nFile changed: %s\nRe-running suites...\n\n", name)
			rerun()
			fmt.Fprintf(w, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watcher error: %v\n", err)
		}
	}
}

// watchDirs lists the directories holding the suite files plus every
// directory below the directory arguments.
func watchDirs(args, files []string) []string {
	var dirs []string
	for _, file := range files {
		dirs = append(dirs, filepath.Dir(file))
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			continue
		}
		_ = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				dirs = append(dirs, path)
			}
			return nil
		})
	}
	return dirs
}
