package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// Exit codes for volt CLI
const (
	// ExitSuccess indicates all assertions passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more assertions failed, or a check
	// such as unresolved variables or invalid JSON did not pass
	ExitTestFailure = 1

	// ExitParseError indicates a suite or input file could not be parsed
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for an error. A nil err means the
// command already reported the problem and only the code matters.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status"
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code are treated as test failures.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitTestFailure
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return withExitCode(ExitUsageError, err)
		}
		return nil
	}
}
