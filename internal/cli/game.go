package cli

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game result commands",
	}

	cmd.AddCommand(newGameSaveCmd())
	cmd.AddCommand(newGameListCmd("list", "List games played in a date range", "/api/v1/games"))
	cmd.AddCommand(newGameListCmd("winners", "List winning games in a date range", "/api/v1/winners"))
	cmd.AddCommand(newGameRecentCmd())

	return cmd
}

func newGameSaveCmd() *cobra.Command {
	var (
		studentNumber string
		result        string
		retries       int
		datePlayed    string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Record a game result",
		RunE: func(cmd *cobra.Command, args []string) error {
			played := time.Now().UTC()
			if datePlayed != "" {
				t, err := time.Parse(time.RFC3339, datePlayed)
				if err != nil {
					return fmt.Errorf("--date-played must be RFC3339: %w", err)
				}
				played = t
			}

			req := map[string]any{
				"student_number": studentNumber,
				"result":         result,
				"retry_count":    retries,
				"date_played":    played.Format(time.RFC3339Nano),
			}
			var resp SaveGameResult

			if err := client.Post("/api/v1/save-game", req, &resp); err != nil {
				return err
			}

			newOutput(cmd).Print(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&studentNumber, "student-number", "", "Student number (required)")
	cmd.Flags().StringVar(&result, "result", "", "Game outcome, e.g. win or lose (required)")
	cmd.Flags().IntVar(&retries, "retries", 0, "Number of retries used")
	cmd.Flags().StringVar(&datePlayed, "date-played", "", "RFC3339 time the game was played (default now)")
	_ = cmd.MarkFlagRequired("student-number")
	_ = cmd.MarkFlagRequired("result")

	return cmd
}

func newGameListCmd(use, short, path string) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GamesResult

			if err := client.Get(path, dateRangeQuery(start, end), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	addDateRangeFlags(cmd, &start, &end)
	return cmd
}

func newGameRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List players who played within the cooldown window",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RecentPlayersResult

			if err := client.Get("/api/v1/recent-players", nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

// addDateRangeFlags registers --start and --end, both defaulting to today
func addDateRangeFlags(cmd *cobra.Command, start, end *string) {
	today := time.Now().UTC().Format("2006-01-02")
	cmd.Flags().StringVar(start, "start", today, "Start date, YYYY-MM-DD or RFC3339")
	cmd.Flags().StringVar(end, "end", today, "End date, YYYY-MM-DD (whole day) or RFC3339")
}

func dateRangeQuery(start, end string) url.Values {
	return url.Values{"start_date": {start}, "end_date": {end}}
}
