package main

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"parbids/internal/journal"
	"parbids/internal/workflow"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var subjects []string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert discovered PAR/REC scans into the BIDS output tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := workflow.NewRunner(cfg, logger)
			summary, err := runner.Run(runCtx, subjects)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderSummary(out, summary)

			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d scan groups failed", summary.Failed, summary.Total())
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&subjects, "subject", "s", nil, "Limit conversion to the given subject (repeatable)")
	return cmd
}

func renderSummary(out io.Writer, summary *workflow.Summary) {
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		detail := result.OutputPath
		if result.Status != journal.StatusSucceeded {
			detail = result.Reason
		}
		rows = append(rows, []string{
			result.Group.Subject,
			result.Group.Name,
			string(result.Status),
			detail,
		})
	}

	if isTerminal(out) {
		fmt.Fprintln(out, renderTable(
			[]string{"Subject", "Scan", "Status", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
	} else {
		for _, row := range rows {
			fmt.Fprintln(out, strings.Join(row, "\t"))
		}
	}

	fmt.Fprintf(out, "run %s: %d succeeded, %d skipped, %d failed\n",
		summary.RunID, summary.Succeeded, summary.Skipped, summary.Failed)
}
