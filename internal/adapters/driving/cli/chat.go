package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session in the terminal.

Type a question and press Enter. Commands:
  /reset - discard the conversation and start a new session
  /exit  - quit (Ctrl+C and Ctrl+D also work)`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()

	promptColor := color.New(color.FgGreen, color.Bold).SprintFunc()
	replyColor := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Println(promptColor("BrightQuery"), "- company services assistant")
	fmt.Println("Ask about a company's services. Type /exit to quit, /reset to start over.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptColor("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "":
			continue
		case "/exit", "/quit", "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "/reset":
			chatService.Reset()
			fmt.Println("Started a new session.")
			fmt.Println()
			continue
		}

		turn := chatService.HandleTurn(ctx, input)
		fmt.Printf("%s %s\n\n", replyColor("Assistant:"), turn.Text)
	}

	return scanner.Err()
}
