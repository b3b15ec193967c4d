package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cicheck/cicheck/packages/core/config"
)

var listCmd = &cobra.Command{
	Use:   "list [ruleset...]",
	Short: "List all checks declared in rulesets",
	Long: `List the targets and checks declared in cicheck ruleset files.

Without arguments, the same ruleset discovery as 'cicheck run' applies,
including the built-in ruleset fallback.

Examples:
  cicheck list
  cicheck list cicheck.yml`,
	Args: cobra.ArbitraryArgs,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	rulesets, err := loadRulesets(args, config.DefaultConfig())
	if err != nil {
		return err
	}

	for _, rs := range rulesets {
		name := rs.Name
		if name == "" {
			name = rs.Path
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", name)

		for _, target := range rs.Targets {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", target.File)
			for _, check := range target.Checks {
				fmt.Fprintf(cmd.OutOrStdout(), "    - %s (%s)", check.Name, check.Kind)
				if check.AC != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " [%s]", check.AC)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n")
			}
		}
	}

	return nil
}
