package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newVoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Judging commands",
	}

	cmd.AddCommand(newVoteCastCmd())
	cmd.AddCommand(newVoteWinnerCmd())
	cmd.AddCommand(newVoteLeaderboardCmd())
	cmd.AddCommand(newVoteWinnersCmd())
	cmd.AddCommand(newVoteTokenCmd())

	return cmd
}

func newVoteCastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cast <game-id> <entry-id> <score>",
		Short: "Score an entry 1-10",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid score: %w", err)
			}

			req := map[string]any{"entry_id": args[1], "score": score}
			var result Vote

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/votes", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Scored entry %s: %d", result.EntryID, result.Score))
			return nil
		},
	}
}

func newVoteWinnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "winner <game-id> <entry-id>",
		Short: "Pick an entry as your winner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"entry_id": args[1]}
			var result Vote

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/winner", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Winner selected: entry " + result.EntryID)
			return nil
		},
	}
}

func newVoteLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <game-id>",
		Short: "Show the combined leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LeaderboardRow

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/leaderboard", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newVoteWinnersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "winners <game-id>",
		Short: "Show judge winner picks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []WinnerPick

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/winners", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newVoteTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Vote token commands",
	}

	cmd.AddCommand(newVoteTokenCreateCmd())
	cmd.AddCommand(newVoteTokenListCmd())
	cmd.AddCommand(newVoteTokenInfoCmd())
	cmd.AddCommand(newVoteTokenClaimCmd())

	return cmd
}

func newVoteTokenCreateCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "create <game-id>",
		Short: "Issue a vote token for a game (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"label": label}
			var result VoteToken

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/tokens", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Token label, e.g. 'Judge 1'")

	return cmd
}

func newVoteTokenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "List a game's vote tokens (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []VoteToken

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/tokens", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newVoteTokenInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <token>",
		Short: "Show what a vote token is for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TokenInfo

			if err := client.Get("/api/v1/tokens/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newVoteTokenClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <token>",
		Short: "Claim a vote token as the signed-in judge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				GameID string `json:"game_id"`
				Label  string `json:"label,omitempty"`
			}

			if err := client.Post("/api/v1/tokens/"+args[0]+"/claim", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Claimed voting rights for game " + result.GameID)
			return nil
		},
	}
}
