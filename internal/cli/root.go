package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command. An environment parse failure is
// reported when the command runs.
func NewRootCmd() *cobra.Command {
	loaded, cfgErr := LoadConfig()
	if cfgErr != nil {
		loaded = &Config{ServerURL: "http://localhost:8080", Output: "text", Timeout: 30 * time.Second}
	}
	cfg = loaded

	rootCmd := &cobra.Command{
		Use:   "slotctl",
		Short: "CLI tool for the slot machine registry API",
		Long: `slotctl is a CLI tool for interacting with the slot machine registry JSON API.

It supports player registration, play validation, recording game results,
and the reporting endpoints (games, winners, recent players, stats, audit).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			if cfg.Output != "text" && cfg.Output != "json" {
				return fmt.Errorf("unknown output format %q", cfg.Output)
			}
			client = NewClient(cfg.ServerURL, cfg.Timeout)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SLOTCTL_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: SLOTCTL_OUTPUT)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout (env: SLOTCTL_TIMEOUT)")

	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newOutput binds the configured format to the command's output stream
func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
