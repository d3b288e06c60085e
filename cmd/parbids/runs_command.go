package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"parbids/internal/journal"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recorded conversion runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dbPath := filepath.Join(cfg.OutputDir, ".parbids", "journal.db")
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No journal found; run a conversion first.")
				return nil
			}

			store, err := journal.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			if runID != "" {
				return renderRunRecords(cmd, store, runID)
			}
			return renderRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-scan records for one run")
	return cmd
}

func renderRecentRuns(cmd *cobra.Command, store *journal.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			finished,
			strconv.Itoa(run.Succeeded),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Run", "Started", "Finished", "OK", "Skip", "Fail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	return nil
}

func renderRunRecords(cmd *cobra.Command, store *journal.Store, runID string) error {
	records, err := store.RecordsForRun(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		detail := rec.OutputPath
		if rec.Status != journal.StatusSucceeded {
			detail = rec.Reason
		}
		rows = append(rows, []string{rec.Subject, rec.ScanName, string(rec.Status), detail})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Subject", "Scan", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}
