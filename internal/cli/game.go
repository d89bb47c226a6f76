package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game management commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameTransitionCmd("open", "Open the lobby for joining"))
	cmd.AddCommand(newGameTransitionCmd("start", "Start the coding session"))
	cmd.AddCommand(newGameTransitionCmd("end", "End the coding session and open voting"))
	cmd.AddCommand(newGameTransitionCmd("finish", "Finish the game after voting"))
	cmd.AddCommand(newGameTransitionCmd("reset", "Reset the game back to the lobby"))
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGamePlayersCmd())
	cmd.AddCommand(newGameEntriesCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var title, description, refImage, requirements string
	var duration int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"title":               title,
				"description":         description,
				"reference_image_url": refImage,
				"requirements":        requirements,
				"duration_minutes":    duration,
			}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Game title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Game description")
	cmd.Flags().StringVar(&refImage, "reference-image", "", "Reference image URL")
	cmd.Flags().StringVar(&requirements, "requirements", "", "Requirements text")
	cmd.Flags().IntVar(&duration, "duration", 0, "Session duration in minutes")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	var byCode bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a game by id or short code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/" + args[0]
			if byCode {
				path = "/api/v1/games/code/" + args[0]
			}

			var result Game
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&byCode, "code", false, "Look up by short code instead of id")

	return cmd
}

func newGameListCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			if active {
				path = "/api/v1/games/active"
			}

			var result []Game
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "List all active games instead of your own")

	return cmd
}

func newGameTransitionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/%s", args[0], action), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeletedGame

			if err := client.Delete("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if len(result.OrphanedAssetURLs) > 0 {
				out.Print(result)
			} else {
				out.PrintMessage("Game deleted")
			}
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	var handle string

	cmd := &cobra.Command{
		Use:   "join <id>",
		Short: "Join a game as a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"handle": handle}
			var result JoinResult

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/players", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Joined as player " + result.PlayerID)
			return nil
		},
	}

	cmd.Flags().StringVar(&handle, "handle", "", "Display handle (required for first join)")

	return cmd
}

func newGamePlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players <id>",
		Short: "List game participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Player

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameEntriesCmd() *cobra.Command {
	var submitted bool

	cmd := &cobra.Command{
		Use:   "entries <id>",
		Short: "List game entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/games/%s/entries", args[0])
			if submitted {
				path += "/submitted"
			}

			var result []Entry
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&submitted, "submitted", false, "Only submitted entries, sorted by score")

	return cmd
}
