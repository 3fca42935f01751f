// Package cmd implements the volt CLI commands using Cobra.
//
// Available commands:
//   - substitute: Fill {{variable}} placeholders from config, environments and flags
//   - json: Extract, format, minify, validate and describe JSON documents
//   - assert: Check recorded responses in suite files against their assertions
//   - eval: Evaluate a JSON assertion list against a single response
//   - validate: Check suite files against the suite schema
//   - init: Create a config file and an example suite
//   - version: Show volt version information
//
// Exit codes are listed in exitcodes.go. Suite runs support console, JSON,
// JUnit and TAP output and a watch mode for development workflows.
package cmd
