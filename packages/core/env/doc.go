// Package env handles variable tables and {{variable}} substitution for volt.
//
// It provides functionality for:
//   - Placeholder substitution using {{variable}} syntax
//   - Listing and checking placeholders in a template
//   - Loading variable tables from .env, JSON and YAML files
//   - Picking environment-specific tables out of the config
//   - Importing prefixed process environment variables
package env
