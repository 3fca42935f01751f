package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/volt/packages/api"
	"github.com/abdul-hamid-achik/volt/packages/assertions"
	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/abdul-hamid-achik/volt/packages/jsoninfo"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <assertions.json> <response.json>",
	Short: "Evaluate a JSON assertion list against one response",
	Long: `Evaluate a JSON array of assertions against a single response object
and print the results as JSON, one per assertion, in input order.

The response object has the shape
  {"statusCode": 200, "headers": {...}, "body": "...", "timingMs": 42}

Examples:
  volt eval assertions.json response.json
  volt eval assertions.json - < response.json`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: evalCommand,
}

func evalCommand(cmd *cobra.Command, args []string) error {
	assertionsDoc, err := readEvalInput(cmd, args[0])
	if err != nil {
		return err
	}
	responseDoc, err := readEvalInput(cmd, args[1])
	if err != nil {
		return err
	}

	var list []*assertions.Assertion
	if err := json.Unmarshal([]byte(assertionsDoc), &list); err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("invalid assertions in %s: %w", args[0], err))
	}
	for i, a := range list {
		if a == nil {
			return withExitCode(ExitParseError, fmt.Errorf("invalid assertions in %s: element %d is null", args[0], i))
		}
	}
	var resp http.Response
	if err := json.Unmarshal([]byte(responseDoc), &resp); err != nil {
		return withExitCode(ExitParseError, fmt.Errorf("invalid response in %s: %w", args[1], err))
	}

	out := api.RunAssertions(assertionsDoc, responseDoc)

	var results []assertions.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		return err
	}
	if len(results) != len(list) {
		return withExitCode(ExitParseError, fmt.Errorf("could not evaluate %s against %s", args[0], args[1]))
	}
	fmt.Fprintln(cmd.OutOrStdout(), jsoninfo.Format(out))

	for _, r := range results {
		if !r.Passed {
			return withExitCode(ExitTestFailure, nil)
		}
	}
	return nil
}

func readEvalInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		doc, _, err := readTextArg(cmd, nil)
		return doc, err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", withExitCode(ExitParseError, fmt.Errorf("cannot read %s: %w", name, err))
	}
	return string(data), nil
}
