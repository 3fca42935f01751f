package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/volt/packages/suite"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <suite|directory>...",
	Short: "Validate suite files against the suite schema",
	Long: `Validate suite files against the suite schema without evaluating them.

Examples:
  volt validate users.suite.yaml
  volt validate ./suites/`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := suite.Collect(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no suite files found"))
	}

	hasErrors := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err == nil {
			err = suite.Validate(data, suite.FormatOf(file))
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withExitCode(ExitParseError, fmt.Errorf("validation failed"))
	}

	return nil
}
