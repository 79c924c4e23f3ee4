package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show player, game and win totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get("/api/v1/stats", nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newAuditCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail for a date range, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AuditResult

			if err := client.Get("/api/v1/audit", dateRangeQuery(start, end), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	addDateRangeFlags(cmd, &start, &end)
	return cmd
}
