package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Game settings commands",
	}

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Settings

			if err := client.Get("/api/v1/settings", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set repeats <true|false>",
		Short: "Change whether new codes may repeat digits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "repeats" {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			allow, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("value must be true or false")
			}

			req := map[string]bool{"allow_repeats": allow}
			var result Settings

			if err := client.Patch("/api/v1/settings", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
