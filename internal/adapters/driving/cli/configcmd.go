package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brightquery-labs/brightquery-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored configuration",
	Long: `View and update the stored configuration file.

API keys and model overrides set here persist across sessions.
Environment variables always take precedence over stored values.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [gemini|search]",
	Short: "Store an API key",
	Long: `Store an API key in the configuration file.

  gemini - Gemini API key for extraction, embeddings, and answers
  search - Google Programmable Search API key and engine ID

The key is read without echo when run in a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetKey,
}

var configSetModelCmd = &cobra.Command{
	Use:   "set-model [chat|embed] [model]",
	Short: "Override a model identifier",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSetModel,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configSetModelCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}

	cmd.Println("Effective Configuration")
	cmd.Println("=======================")
	cmd.Println()

	cmd.Println("[Gemini]")
	if appConfig.HasGemini() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(appConfig.Gemini.APIKey))
	} else {
		cmd.Println("  API Key: (not set)")
	}
	cmd.Printf("  Chat Model: %s\n", appConfig.Gemini.ChatModel)
	cmd.Printf("  Embed Model: %s\n", appConfig.Gemini.EmbedModel)
	cmd.Println()

	cmd.Println("[Search]")
	if appConfig.Search.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(appConfig.Search.APIKey))
	} else {
		cmd.Println("  API Key: (not set)")
	}
	if appConfig.Search.EngineID != "" {
		cmd.Printf("  Engine ID: %s\n", appConfig.Search.EngineID)
	} else {
		cmd.Println("  Engine ID: (not set)")
	}
	cmd.Printf("  Deep Fetch: %t\n", appConfig.Search.DeepFetch)
	cmd.Println()

	cmd.Println("[App]")
	cmd.Printf("  Save History: %t\n", appConfig.App.SaveHistory)
	if configStore != nil {
		cmd.Printf("  Config File: %s\n", configStore.Path())
	}

	if !appConfig.HasGemini() {
		cmd.Println()
		cmd.Println("Gemini is not configured; answers fall back to a fixed reply.")
		cmd.Println("Run 'brightquery config set-key gemini' to store a key.")
	}
	if !appConfig.HasSearch() {
		cmd.Println()
		cmd.Println("Web search is not configured; retrieval is disabled.")
		cmd.Println("Run 'brightquery config set-key search' to store credentials.")
	}

	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not available")
	}

	switch args[0] {
	case "gemini":
		cmd.Print("Enter Gemini API key: ")
		key := readPassword()
		cmd.Println()
		if key == "" {
			return errors.New("API key must not be empty")
		}
		if err := configStore.Set(config.KeyGeminiAPIKey, key); err != nil {
			return fmt.Errorf("store key: %w", err)
		}
		cmd.Println("Gemini API key saved.")

	case "search":
		cmd.Print("Enter Google API key: ")
		key := readPassword()
		cmd.Println()
		if key == "" {
			return errors.New("API key must not be empty")
		}
		cmd.Print("Enter search engine ID: ")
		engineID := readLine(bufio.NewReader(os.Stdin))
		if engineID == "" {
			return errors.New("engine ID must not be empty")
		}
		if err := configStore.Set(config.KeySearchAPIKey, key); err != nil {
			return fmt.Errorf("store key: %w", err)
		}
		if err := configStore.Set(config.KeySearchEngineID, engineID); err != nil {
			return fmt.Errorf("store engine ID: %w", err)
		}
		cmd.Println("Search credentials saved.")

	default:
		return fmt.Errorf("unknown key %q (expected gemini or search)", args[0])
	}

	return nil
}

func runConfigSetModel(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not available")
	}

	model := strings.TrimSpace(args[1])
	if model == "" {
		return errors.New("model must not be empty")
	}

	switch args[0] {
	case "chat":
		if err := configStore.Set(config.KeyChatModel, model); err != nil {
			return fmt.Errorf("store model: %w", err)
		}
		cmd.Printf("Chat model set to %s.\n", model)
	case "embed":
		if err := configStore.Set(config.KeyEmbedModel, model); err != nil {
			return fmt.Errorf("store model: %w", err)
		}
		cmd.Printf("Embed model set to %s.\n", model)
	default:
		return fmt.Errorf("unknown model kind %q (expected chat or embed)", args[0])
	}

	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
