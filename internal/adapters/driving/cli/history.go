package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved chat sessions",
	Long: `List saved chat sessions, most recent first.

Transcripts are stored locally. Use 'history show' to print the full
transcript of one session.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print the transcript of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of sessions")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history is disabled")
	}

	sessions, err := historyService.ListSessions(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No saved sessions.")
		return nil
	}

	for _, s := range sessions {
		first := s.FirstQuestion
		if len(first) > 60 {
			first = first[:57] + "..."
		}
		cmd.Printf("  %s  %s  %2d turns  %s\n",
			s.ID, s.StartedAt.Local().Format("2006-01-02 15:04"), s.TurnCount, first)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history is disabled")
	}

	turns, err := historyService.GetSession(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		return fmt.Errorf("get session: %w", err)
	}

	for _, turn := range turns {
		label := "You"
		if turn.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		cmd.Printf("%s: %s\n\n", label, turn.Text)
	}
	return nil
}
