package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultEnvironment: "dev",
		Output:             "console",
		Concurrency:        5,
		LogLevel:           "warn",
		LogFormat:          "text",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.DefaultEnvironment == defaults.DefaultEnvironment &&
		len(c.Environments) == 0 &&
		len(c.Variables) == 0 &&
		c.EnvFile == defaults.EnvFile &&
		c.EnvPrefix == defaults.EnvPrefix &&
		c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.GetParallel() == defaults.GetParallel() &&
		c.Concurrency == defaults.Concurrency &&
		c.GetBail() == defaults.GetBail() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.LogLevel == defaults.LogLevel &&
		c.LogFormat == defaults.LogFormat
}
