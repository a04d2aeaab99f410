package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Long: `Ask a single question and print the answer.

The question goes through the same pipeline as interactive chat:
company and service extraction, web snippet retrieval, and grounded
answer generation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question := strings.Join(args, " ")
	turn := chatService.HandleTurn(context.Background(), question)
	cmd.Println(turn.Text)
	return nil
}
