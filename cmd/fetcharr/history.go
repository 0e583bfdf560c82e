package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/fetcharr/internal/config"
	"github.com/vmunix/fetcharr/internal/history"
	"github.com/vmunix/fetcharr/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs",
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its per-file outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
}

func openStore() (*history.Store, func(), error) {
	cfg, err := config.LoadDiscovered(configPath)
	if err != nil {
		return nil, nil, err
	}
	store, db, err := history.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(runs)
		return nil
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	fmt.Printf("Recent Runs (%d):\n\n", len(runs))
	fmt.Printf("  %-5s %-20s %-10s %-10s %-7s %-10s %s\n",
		"ID", "STARTED", "PROCESSED", "SUCCEEDED", "FAILED", "SIZE", "ARCHIVE")
	for _, r := range runs {
		archived := "-"
		if r.ArchivePath != "" {
			archived = r.ArchivePath
		}
		fmt.Printf("  %-5d %-20s %-10d %-10d %-7d %-10s %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Processed, r.Succeeded, r.Failed,
			report.FormatBytes(r.TotalBytes), archived)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	run, err := store.Get(id)
	if err != nil {
		return err
	}
	outcomes, err := store.Outcomes(id)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]any{"run": run, "outcomes": outcomes})
		return nil
	}

	fmt.Printf("Run %d  started %s", run.ID, run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Printf("  finished %s", run.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("\n  %d processed, %d succeeded, %d failed, %s\n",
		run.Processed, run.Succeeded, run.Failed, report.FormatBytes(run.TotalBytes))
	if run.ArchivePath != "" {
		fmt.Printf("  archived to %s\n", run.ArchivePath)
	}

	if len(outcomes) > 0 {
		fmt.Println()
		for _, o := range outcomes {
			status := "ok"
			if !o.Success {
				status = "FAILED: " + o.Error
			}
			fmt.Printf("  [%s] %s (%s, %dms) %s\n",
				o.Category, o.URL, report.FormatBytes(o.Bytes), o.ElapsedMS, status)
		}
	}
	return nil
}
