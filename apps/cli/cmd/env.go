package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/volt/packages/core/config"
	"github.com/abdul-hamid-achik/volt/packages/core/env"
	"github.com/spf13/cobra"
)

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		i, err := strconv.Atoi(val)
		if err == nil {
			return i
		}
	}
	return defaultVal
}

// variableFlags are shared by every command that resolves {{placeholders}}.
type variableFlags struct {
	envName  string
	envFile  string
	varsFile string
	vars     []string
}

func (f *variableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.envName, "env", "e", getEnvString("VOLT_ENV", ""), "Environment from the config file (env: VOLT_ENV)")
	cmd.Flags().StringVar(&f.envFile, "env-file", getEnvString("VOLT_ENV_FILE", ""), "Path to .env file (env: VOLT_ENV_FILE)")
	cmd.Flags().StringVar(&f.varsFile, "vars-file", "", "Path to a JSON, YAML or .env variables file")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Set a variable (key=value), may be repeated")
}

// resolve layers variables from lowest to highest precedence: config
// variables, the selected environment, the .env file, prefixed system
// environment, the variables file and finally --var flags.
func (f *variableFlags) resolve(cfg *config.Config) (env.Variables, error) {
	envName := f.envName
	if envName == "" {
		envName = cfg.DefaultEnvironment
	}
	environment := env.LoadEnvironment(envName, cfg.Environments)

	layers := []env.Variables{cfg.Variables, environment.Variables}

	envFile, optional := f.envFile, false
	if envFile == "" && cfg.EnvFile != "" {
		envFile, optional = cfg.ResolvePath(cfg.EnvFile), true
	}
	if envFile != "" {
		vars, err := env.LoadDotEnv(envFile)
		switch {
		case err == nil:
			layers = append(layers, vars)
		case optional && errors.Is(err, fs.ErrNotExist):
			slog.Debug("env file not found", "path", envFile)
		default:
			return nil, withExitCode(ExitConfigError, err)
		}
	}

	if cfg.EnvPrefix != "" {
		layers = append(layers, env.LoadSystemEnv(cfg.EnvPrefix))
	}

	if f.varsFile != "" {
		vars, err := env.LoadVariablesFile(f.varsFile)
		if err != nil {
			return nil, withExitCode(ExitConfigError, err)
		}
		layers = append(layers, vars)
	}

	cli := make(env.Variables, len(f.vars))
	for _, kv := range f.vars {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, withExitCode(ExitUsageError, fmt.Errorf("invalid --var %q, expected key=value", kv))
		}
		cli[strings.TrimSpace(key)] = value
	}
	layers = append(layers, cli)

	return env.MergeVariables(layers...), nil
}
