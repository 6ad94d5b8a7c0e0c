package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Round commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameResumeCmd())
	cmd.AddCommand(newGameStatusCmd())
	cmd.AddCommand(newGameGuessCmd())
	cmd.AddCommand(newGameHelpCmd())
	cmd.AddCommand(newGameRestartCmd())
	cmd.AddCommand(newGameAbandonCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	var repeats string

	cmd := &cobra.Command{
		Use:   "start <player>",
		Short: "Start a new round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"player": args[0]}
			switch repeats {
			case "on":
				req["allow_repeats"] = true
			case "off":
				req["allow_repeats"] = false
			}

			var result Session
			if err := client.Post("/api/v1/session", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&repeats, "repeats", "", "Allow repeated digits: on, off (default: saved setting)")

	return cmd
}

func newGameResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <player>",
		Short: "Resume the player's round in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player": args[0]}
			var result Session

			if err := client.Post("/api/v1/session/resume", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the round in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get("/api/v1/session", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code>",
		Short: "Submit a 4-digit guess",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"guess": args[0]}
			var result GuessResult

			if err := client.Post("/api/v1/session/guess", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help <draft>",
		Short: "Spend a help token to see which digits of a draft are in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"draft": args[0]}
			var result HelpResult

			if err := client.Post("/api/v1/session/help", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the round with a new code (once per round)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Post("/api/v1/session/restart", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon",
		Short: "Give up the round in progress (counts as a loss)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoundResult

			if err := client.Delete("/api/v1/session", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
