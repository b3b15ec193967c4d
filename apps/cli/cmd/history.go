package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicheck/cicheck/packages/core/config"
	"github.com/cicheck/cicheck/packages/history"
)

var (
	historyLimitFlag int
	historyRunFlag   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded check runs",
	Long: `List check runs recorded in the history database.

Runs are recorded when 'cicheck run' is invoked with --history-db (or a
historyDb config entry).

Examples:
  cicheck history --history-db .cicheck/history.db
  cicheck history --history-db .cicheck/history.db --run <id>`,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "history-db", getEnvString("CICHECK_HISTORY_DB", ""), "SQLite file run history was recorded in (env: CICHECK_HISTORY_DB)")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyRunFlag, "run", "", "Show per-check outcomes for a single run ID")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	dbPath := historyDBFlag
	if dbPath == "" {
		fileConfig, err := config.LoadConfig("")
		if err == nil {
			dbPath = fileConfig.HistoryDB
		}
	}
	if dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: no history database configured (use --history-db)\n")
		os.Exit(ExitConfigError)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfigError)
	}
	defer store.Close()

	ctx := context.Background()

	if historyRunFlag != "" {
		records, err := store.Results(ctx, historyRunFlag)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No results for run %s\n", historyRunFlag)
			return nil
		}
		for _, rec := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s: %s", rec.Outcome, rec.Target, rec.Name)
			if rec.Message != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", rec.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n")
		}
		return nil
	}

	runs, err := store.Recent(ctx, historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No recorded runs\n")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if run.Failed > 0 || run.Errored > 0 {
			status = "fail"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-4s  %d passed, %d failed, %d errored  (%dms)  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.ID, status,
			run.Passed, run.Failed, run.Errored, run.Duration.Milliseconds(), run.Ruleset)
	}
	return nil
}
