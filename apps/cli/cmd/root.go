package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/abdul-hamid-achik/volt/packages/core/config"
	"github.com/abdul-hamid-achik/volt/packages/diag"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	noColorFlag  bool
	logLevelFlag string

	// fileConfig is loaded once before any command runs.
	fileConfig = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "volt",
	Short: "Variables, JSON and assertions for recorded API responses.",
	Long: `volt is the engine behind an API client: it fills {{variable}}
placeholders, inspects JSON documents with dotted paths, and checks
recorded HTTP responses against declarative assertions.

Suites of recorded responses and their assertions live in plain YAML or
JSON files and can be run from CI with console, JSON, JUnit or TAP output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	overrides := &config.Config{
		LogLevel:  logLevelFlag,
		LogFormat: getEnvString("VOLT_LOG_FORMAT", ""),
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	fileConfig = cfg.Merge(overrides)

	diag.Init(diag.Options{
		Level:  fileConfig.LogLevel,
		Format: fileConfig.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if cfg.IsDefault() {
		slog.Debug("no config file found, using defaults")
	} else {
		slog.Debug("loaded config", "dir", cfg.Dir)
	}

	if fileConfig.GetNoColor() {
		color.NoColor = true
	}
	return nil
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		var silent *exitError
		if !errors.As(err, &silent) || silent.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("VOLT_CONFIG", ""), "Path to config file (env: VOLT_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("VOLT_NO_COLOR", false), "Disable colored output (env: VOLT_NO_COLOR)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("VOLT_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: VOLT_LOG_LEVEL)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(substituteCmd)
	rootCmd.AddCommand(jsonCmd)
	rootCmd.AddCommand(assertCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
