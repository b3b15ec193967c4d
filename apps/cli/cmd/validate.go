package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicheck/cicheck/packages/core/ruleset"
)

var validateCmd = &cobra.Command{
	Use:   "validate <ruleset...>",
	Short: "Validate ruleset files for syntax errors",
	Long: `Validate cicheck ruleset files for syntax errors without running them.

Examples:
  cicheck validate cicheck.yml
  cicheck validate rules/workflow.yml rules/sonar.yml`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		rs, err := ruleset.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d targets, %d checks)\n", file, len(rs.Targets), rs.CheckCount())
	}

	if hasErrors {
		os.Exit(ExitRulesetError)
	}
	return nil
}
