package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/volt/packages/api"
	"github.com/abdul-hamid-achik/volt/packages/jsoninfo"
	"github.com/abdul-hamid-achik/volt/packages/jsonpath"
	"github.com/spf13/cobra"
)

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Inspect and reshape JSON documents",
	Long: `Inspect and reshape JSON documents.

Every subcommand reads the document from the named file, or from stdin
when the file is omitted or "-".`,
}

var jsonExtractCmd = &cobra.Command{
	Use:   "extract <file|-> <path>...",
	Short: "Extract values by dotted path",
	Long: `Extract values from a JSON document by dotted path such as
"data.items[0].name".

With one path the value is printed as compact JSON, or "undefined" when the
path does not resolve. With several paths a JSON object maps each path to
its value; unresolved paths are left out.

Examples:
  volt json extract response.json user.name
  curl -s $URL | volt json extract - data.items[0].id data.total`,
	Args: usageArgs(cobra.MinimumNArgs(2)),
	RunE: jsonExtractCommand,
}

var jsonFormatCmd = &cobra.Command{
	Use:   "format [file|-]",
	Short: "Pretty-print with two-space indentation",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: jsonTransform(func(doc string) string {
		return jsoninfo.Format(doc)
	}),
}

var jsonMinifyCmd = &cobra.Command{
	Use:   "minify [file|-]",
	Short: "Remove insignificant whitespace",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: jsonTransform(func(doc string) string {
		return jsoninfo.Minify(doc)
	}),
}

var jsonValidateCmd = &cobra.Command{
	Use:   "validate [file|-]",
	Short: "Check that a document is well-formed JSON",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE:  jsonValidateCommand,
}

var jsonInfoCmd = &cobra.Command{
	Use:   "info [file|-]",
	Short: "Describe the type, size, depth and shape of a document",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: jsonTransform(func(doc string) string {
		return api.JSONInfo(doc)
	}),
}

func init() {
	jsonCmd.AddCommand(jsonExtractCmd)
	jsonCmd.AddCommand(jsonFormatCmd)
	jsonCmd.AddCommand(jsonMinifyCmd)
	jsonCmd.AddCommand(jsonValidateCmd)
	jsonCmd.AddCommand(jsonInfoCmd)
}

// readDocument reads a JSON document from a file argument or stdin.
func readDocument(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		doc, _, err := readTextArg(cmd, nil)
		return doc, err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", withExitCode(ExitParseError, fmt.Errorf("cannot read %s: %w", args[0], err))
	}
	return string(data), nil
}

func jsonTransform(fn func(doc string) string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, args)
		if err != nil {
			return err
		}
		if !jsoninfo.Validate(doc) {
			return withExitCode(ExitParseError, fmt.Errorf("%s is not valid JSON", describeSource(args)))
		}
		fmt.Fprintln(cmd.OutOrStdout(), fn(doc))
		return nil
	}
}

func jsonExtractCommand(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(cmd, args[:1])
	if err != nil {
		return err
	}
	if !jsoninfo.Validate(doc) {
		return withExitCode(ExitParseError, fmt.Errorf("%s is not valid JSON", describeSource(args[:1])))
	}

	paths := args[1:]
	if len(paths) > 1 {
		encoded, err := json.Marshal(paths)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), api.JSONExtractBatch(doc, string(encoded)))
		return nil
	}

	value := api.JSONExtract(doc, paths[0])
	fmt.Fprintln(cmd.OutOrStdout(), value)
	if value == jsonpath.Undefined {
		return withExitCode(ExitTestFailure, nil)
	}
	return nil
}

func jsonValidateCommand(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(cmd, args)
	if err != nil {
		return err
	}
	if !api.JSONValidate(doc) {
		fmt.Fprintln(cmd.OutOrStdout(), "invalid")
		return withExitCode(ExitTestFailure, nil)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "valid")
	return nil
}

// describeSource names where a document came from for messages.
func describeSource(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return strings.TrimSpace(args[0])
}
