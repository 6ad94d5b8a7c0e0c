package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Roster management commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerRemoveCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List players and their records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList

			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a player to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[0]}
			var result Player

			if err := client.Post("/api/v1/players", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a player and any round they have in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if err := client.Delete("/api/v1/players/"+url.PathEscape(name), nil); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Removed %s", name))
			return nil
		},
	}
}
