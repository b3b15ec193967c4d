package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cicheck/cicheck/packages/builtin"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a cicheck.yml in the current directory",
	Long: `Scaffold a cicheck.yml in the current directory from the built-in
Gradle CI ruleset, ready to edit.

Examples:
  cicheck init
  cicheck init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing ruleset file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	rulesetFile := filepath.Join(cwd, "cicheck.yml")
	if !forceInit {
		if _, err := os.Stat(rulesetFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", rulesetFile)
		}
	}

	if err := os.WriteFile(rulesetFile, []byte(builtin.YAML), 0644); err != nil {
		return fmt.Errorf("failed to create ruleset file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", rulesetFile)
	fmt.Fprintf(cmd.OutOrStdout(), "\nRun checks with:\n  cicheck run\n")

	return nil
}
