package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/volt/packages/core/env"
	"github.com/spf13/cobra"
)

var (
	substituteVars  variableFlags
	substituteList  bool
	substituteCheck bool
)

var substituteCmd = &cobra.Command{
	Use:   "substitute [text]",
	Short: "Replace {{variable}} placeholders in text",
	Long: `Replace {{variable}} placeholders in text with values from the config
file, the selected environment, .env files, variables files and --var flags.

Placeholders without a value are left untouched and reported as warnings.
When no text argument is given the text is read from stdin.

Examples:
  volt substitute 'GET {{baseUrl}}/users/{{ userId }}' --var userId=42
  cat request.http | volt substitute --env staging
  volt substitute --list 'Bearer {{token}}'
  volt substitute --check --env prod < request.http`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: substituteCommand,
}

func init() {
	substituteVars.register(substituteCmd)
	substituteCmd.Flags().BoolVar(&substituteList, "list", false, "List placeholder names instead of substituting")
	substituteCmd.Flags().BoolVar(&substituteCheck, "check", false, "Fail when a placeholder has no value")
}

func substituteCommand(cmd *cobra.Command, args []string) error {
	text, fromStdin, err := readTextArg(cmd, args)
	if err != nil {
		return err
	}

	if substituteList {
		for _, name := range env.FindVariables(text) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	vars, err := substituteVars.resolve(fileConfig)
	if err != nil {
		return err
	}

	unresolved := env.UnresolvedVariables(text, vars)
	if substituteCheck && len(unresolved) > 0 {
		return fmt.Errorf("unresolved variables: %s", strings.Join(unresolved, ", "))
	}
	for _, name := range unresolved {
		slog.Warn("unresolved variable", "name", name)
	}

	out := env.Substitute(text, vars)
	if fromStdin {
		fmt.Fprint(cmd.OutOrStdout(), out)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

// readTextArg returns the single positional argument, or stdin when it is
// omitted or "-".
func readTextArg(cmd *cobra.Command, args []string) (string, bool, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], false, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", true, fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), true, nil
}
