// Package config handles configuration loading and management for volt.
//
// It provides functionality for:
//   - Loading configuration from volt.yaml, volt.yml or volt.json files
//   - Default configuration values
//   - Named environments of variables
//   - Merging file settings with command-line overrides
package config
