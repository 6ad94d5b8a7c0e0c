package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "mastermind",
		Short: "CLI tool for the mastermind game API",
		Long: `mastermind is a CLI tool for the mastermind game server.

Guess the 4-digit code in 10 attempts. Each guess is scored as bulls
(right digit, right place), cows (digit is in the code) and misses.
Manage the roster and settings, or run "mastermind play <player>" for an
interactive round.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: MASTERMIND_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: MASTERMIND_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		NewOutput(cfg.Output, rootCmd.ErrOrStderr()).PrintError(err)
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
