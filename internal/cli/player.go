package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player registry commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerValidateCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var studentNumber, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"student_number": studentNumber,
				"first_name":     firstName,
				"last_name":      lastName,
			}
			var result RegisterResult

			if err := client.Post("/api/v1/register-user", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&studentNumber, "student-number", "", "Student number, e.g. C1001 (required)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name (required)")
	_ = cmd.MarkFlagRequired("student-number")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered players, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result UsersResult

			if err := client.Get("/api/v1/users", nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <student-number>",
		Short: "Check whether a player may play now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Validation

			q := url.Values{"student_number": {args[0]}}
			if err := client.Get("/api/v1/validate-player", q, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
