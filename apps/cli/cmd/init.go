package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/volt/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new volt project",
	Long: `Initialize a new volt project in the current or given directory.

This creates:
  - volt.yaml            - Configuration file with environments
  - example.suite.yaml   - Example suite with recorded responses

Examples:
  volt init
  volt init ./api-checks --force`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleSuite = `name: example
variables:
  expectedName: Ada

assertions:
  - id: ok
    type: status
    operator: equals
    expected: 200

cases:
  - name: get user
    assertions:
      - type: bodyJson
        property: user.name
        operator: equals
        expected: '"{{expectedName}}"'
      - type: bodyJson
        property: user.roles[0]
        operator: exists
      - type: headerEquals
        property: Content-Type
        operator: contains
        expected: application/json
      - type: responseTime
        operator: lessThan
        expected: 500
    response:
      statusCode: 200
      timingMs: 84
      json:
        user:
          name: Ada
          roles: [admin]

  - name: missing user
    assertions:
      - type: bodyContains
        operator: contains
        expected: not found
    response:
      statusCode: 200
      headers:
        Content-Type: text/plain
      body: user not found
`

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "volt.yaml")
	exampleFile := filepath.Join(dir, "example.suite.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Environments = map[string]map[string]string{
		"dev": {
			"baseUrl": "http://localhost:3000",
		},
		"staging": {
			"baseUrl": "https://staging.api.example.com",
		},
		"prod": {
			"baseUrl": "https://api.example.com",
		},
	}
	cfg.EnvFile = ".env"

	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleSuite), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nvolt project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'volt assert %s' to check the example suite.\n", exampleFile)

	return nil
}
