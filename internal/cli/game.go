package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Create games, list games, and make moves",
	}

	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameMoveCmd())

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result []Game
			if err := client.Get("/api/v1/games", &result); err != nil {
				out.PrintError(err)
				return err
			}

			if len(result) == 0 {
				out.PrintMessage("No games")
				return nil
			}

			out.Print(result)
			return nil
		},
	}
}

func newGameCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new game with yourself as first player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Game
			if err := client.Post("/api/v1/games", nil, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a single game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Game
			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <game-id> <board-state>",
		Short: "Submit a move (the new board state)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Game
			err := client.Post("/api/v1/games/"+args[0]+"/move", map[string]string{
				"board_state": args[1],
			}, &result)
			if err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
