// Package cmd implements the cicheck CLI commands using Cobra.
//
// Available commands:
//   - run: Evaluate rulesets against configuration files
//   - validate: Check ruleset syntax without running
//   - list: Display all checks declared in rulesets
//   - init: Scaffold a cicheck.yml from the built-in ruleset
//   - history: List recorded runs from the history database
//   - version: Show cicheck version information
//
// The CLI supports flags for filtering, output formatting, run history,
// and watch mode for development workflows.
package cmd
