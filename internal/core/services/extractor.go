package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
	"github.com/brightquery-labs/brightquery-cli/internal/logger"
)

// Marker literals the extraction model uses to flag non-question queries.
// They never leave this file: parsing converts them to IntentKind values.
const (
	markerGreeting = "GREETING"
	markerChitchat = "CHITCHAT"
)

// extractionSystemPrompt instructs the model to return a strict two-field
// JSON object. Wording follows the examples closely so small models
// comply.
const extractionSystemPrompt = `You are an expert entity extractor. Your task is to identify the company name ` +
	`and the specific service-related keywords from a user's query. ` +
	`Respond ONLY in JSON format with two fields: 'company_name' and 'service_keywords'. ` +
	`If a company name or service is not clearly specified, use null for that field. ` +
	`If the user query is a simple greeting (e.g., 'hi', 'hello', 'how are you?', 'good morning'), ` +
	`set both 'company_name' and 'service_keywords' to 'GREETING'. ` +
	`If the user query is a simple acknowledgement or thank you (e.g., 'thank you', 'ok', 'got it', 'bye'), ` +
	`set both 'company_name' and 'service_keywords' to 'CHITCHAT'. ` +
	"Example 1: User: 'What are Microsoft's cloud offerings?' -> Output: " +
	"```json\n{\"company_name\": \"Microsoft\", \"service_keywords\": \"cloud offerings\"}\n```" +
	"Example 2: User: 'Hi there!' -> Output: " +
	"```json\n{\"company_name\": \"GREETING\", \"service_keywords\": \"GREETING\"}\n```" +
	"Example 3: User: 'Thank you!' -> Output: " +
	"```json\n{\"company_name\": \"CHITCHAT\", \"service_keywords\": \"CHITCHAT\"}\n```"

// extractionResponse is the expected shape of the model output.
// Both fields are optional; null means "not specified".
type extractionResponse struct {
	CompanyName     *string `json:"company_name"`
	ServiceKeywords *string `json:"service_keywords"`
}

// EntityExtractor classifies a raw user utterance into an ExtractedIntent
// using a single completion call per turn. No retries.
type EntityExtractor struct {
	completion driven.CompletionService
	timeout    time.Duration
}

// NewEntityExtractor creates an entity extractor.
// The completion parameter is optional (can be nil); extraction then
// always yields an unresolved intent.
func NewEntityExtractor(completion driven.CompletionService, timeout time.Duration) *EntityExtractor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &EntityExtractor{
		completion: completion,
		timeout:    timeout,
	}
}

// Extract identifies the company and service keywords in query, or flags
// it as a greeting or chit-chat. Faults are never returned: a malformed
// response or failed call yields an unresolved intent.
func (e *EntityExtractor) Extract(ctx context.Context, query string) domain.ExtractedIntent {
	logger.Section("Entity Extraction")
	logger.Debug("Query: %q", query)

	if e.completion == nil {
		logger.Debug("Completion service not configured, intent unresolved")
		return unresolvedIntent()
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: extractionSystemPrompt},
		{Role: driven.RoleUser, Content: query},
	}
	raw, err := e.completion.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   256,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Error("Entity extraction call failed: %v", err)
		return unresolvedIntent()
	}

	intent, err := parseExtraction(raw)
	if err != nil {
		logger.Warn("Could not parse entity extraction response %q: %v", raw, err)
		return unresolvedIntent()
	}

	logger.Info("Intent: kind=%s company=%q keywords=%q",
		intent.Kind, intent.CompanyName, intent.ServiceKeywords)
	return intent
}

// parseExtraction decodes the model output into an intent. Surrounding
// code fences are stripped before decoding.
func parseExtraction(raw string) (domain.ExtractedIntent, error) {
	var resp extractionResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return domain.ExtractedIntent{}, domain.ErrMalformedExtraction
	}

	company := derefString(resp.CompanyName)
	keywords := derefString(resp.ServiceKeywords)

	switch {
	case company == markerGreeting && keywords == markerGreeting:
		return domain.ExtractedIntent{Kind: domain.IntentGreeting}, nil
	case company == markerChitchat && keywords == markerChitchat:
		return domain.ExtractedIntent{Kind: domain.IntentChitchat}, nil
	case company != "" && keywords != "":
		return domain.ExtractedIntent{
			Kind:            domain.IntentNormal,
			CompanyName:     company,
			ServiceKeywords: keywords,
		}, nil
	default:
		// Partial extraction keeps whatever was found so the
		// orchestrator can ask a targeted clarification.
		return domain.ExtractedIntent{
			Kind:            domain.IntentUnresolved,
			CompanyName:     company,
			ServiceKeywords: keywords,
		}, nil
	}
}

// stripCodeFence removes a surrounding Markdown code fence, with or
// without a language tag, from the model output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func unresolvedIntent() domain.ExtractedIntent {
	return domain.ExtractedIntent{Kind: domain.IntentUnresolved}
}
