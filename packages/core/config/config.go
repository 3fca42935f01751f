package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the volt configuration
type Config struct {
	DefaultEnvironment string                       `json:"defaultEnvironment,omitempty" yaml:"defaultEnvironment,omitempty"`
	Environments       map[string]map[string]string `json:"environments,omitempty" yaml:"environments,omitempty"`
	Variables          map[string]string            `json:"variables,omitempty" yaml:"variables,omitempty"`
	EnvFile            string                       `json:"envFile,omitempty" yaml:"envFile,omitempty"`     // .env file loaded before environments
	EnvPrefix          string                       `json:"envPrefix,omitempty" yaml:"envPrefix,omitempty"` // Process env vars with this prefix become variables
	Output             string                       `json:"output,omitempty" yaml:"output,omitempty"`       // console, json, junit or tap
	OutputFile         string                       `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
	Parallel           *bool                        `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	Concurrency        int                          `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // Number of cases evaluated at once
	Bail               *bool                        `json:"bail,omitempty" yaml:"bail,omitempty"`
	Verbose            *bool                        `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor            *bool                        `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	LogLevel           string                       `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat          string                       `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`

	// Dir is the directory of the file the config was loaded from.
	Dir string `json:"-" yaml:"-"`
}

// boolPtr returns a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return boolPtr(b)
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetParallel returns the parallel setting, defaulting to false
func (c *Config) GetParallel() bool {
	return getBool(c.Parallel, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ResolvePath interprets a path from the config relative to the config's
// directory.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	"volt.yaml",
	"volt.yml",
	".volt.yaml",
	"volt.json",
	".voltrc.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	config := DefaultConfig()
	if isJSONFile(path) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	config.Dir = filepath.Dir(path)

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.DefaultEnvironment != "" {
		result.DefaultEnvironment = other.DefaultEnvironment
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.EnvPrefix != "" {
		result.EnvPrefix = other.EnvPrefix
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}
	if other.Dir != "" {
		result.Dir = other.Dir
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Variables) > 0 {
		merged := make(map[string]string, len(c.Variables)+len(other.Variables))
		for k, v := range c.Variables {
			merged[k] = v
		}
		for k, v := range other.Variables {
			merged[k] = v
		}
		result.Variables = merged
	}

	if len(other.Environments) > 0 {
		merged := make(map[string]map[string]string, len(c.Environments)+len(other.Environments))
		for name, vars := range c.Environments {
			merged[name] = vars
		}
		for name, vars := range other.Environments {
			merged[name] = vars
		}
		result.Environments = merged
	}

	return &result
}

// SaveConfig saves the configuration to a file, as JSON or YAML depending on
// the file extension
func (c *Config) SaveConfig(path string) error {
	var data []byte
	var err error
	if isJSONFile(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
