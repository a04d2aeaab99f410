// Package cli provides the command-line interface. Commands talk to the
// core exclusively through driving ports; adapter construction happens
// in main and is injected here before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/brightquery-labs/brightquery-cli/internal/config"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driving"
	"github.com/brightquery-labs/brightquery-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services, set by Execute before any command runs.
var (
	chatService    driving.ChatService
	historyService driving.HistoryService
	configStore    driven.ConfigStore
	appConfig      *config.Config
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "brightquery",
	Short: "Conversational assistant for company service questions",
	Long: `BrightQuery answers questions about companies and their services.

Each question is grounded in fresh web search results: the assistant
extracts the company and service from your question, retrieves matching
snippets, and generates an answer citing only what it found.

Run without arguments to start an interactive chat session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runChat,
}

// Deps carries the constructed services into the CLI.
type Deps struct {
	Chat        driving.ChatService
	History     driving.HistoryService
	ConfigStore driven.ConfigStore
	Config      *config.Config
	Version     string
}

// Execute wires dependencies and runs the root command.
func Execute(deps Deps) error {
	chatService = deps.Chat
	historyService = deps.History
	configStore = deps.ConfigStore
	appConfig = deps.Config
	if deps.Version != "" {
		version = deps.Version
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
