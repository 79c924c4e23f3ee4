package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthy is the status the server reports when it can serve requests
const healthy = "ok"

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the registry server is reachable and healthy",
		Long: `Calls GET /api/v1/health. Exits non-zero when the server is unreachable
or reports any status other than "ok", so scripts can gate on it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := client.Get("/api/v1/health", nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			if result.Status != healthy {
				return fmt.Errorf("server unhealthy: status %q", result.Status)
			}
			return nil
		},
	}
}
