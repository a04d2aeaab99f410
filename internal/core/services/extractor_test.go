package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
	"github.com/brightquery-labs/brightquery-cli/internal/core/ports/driven"
)

func TestEntityExtractor_Extract_Normal(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: `{"company_name": "Microsoft", "service_keywords": "cloud offerings"}`,
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "What are Microsoft's cloud offerings?")

	assert.Equal(t, domain.IntentNormal, intent.Kind)
	assert.Equal(t, "Microsoft", intent.CompanyName)
	assert.Equal(t, "cloud offerings", intent.ServiceKeywords)
	assert.True(t, intent.Complete())
}

func TestEntityExtractor_Extract_CodeFencedResponse(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: "```json\n{\"company_name\": \"Google\", \"service_keywords\": \"maps api\"}\n```",
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "Tell me about Google's maps api")

	assert.Equal(t, domain.IntentNormal, intent.Kind)
	assert.Equal(t, "Google", intent.CompanyName)
	assert.Equal(t, "maps api", intent.ServiceKeywords)
}

func TestEntityExtractor_Extract_Greeting(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: `{"company_name": "GREETING", "service_keywords": "GREETING"}`,
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "hello!")

	assert.Equal(t, domain.IntentGreeting, intent.Kind)
	assert.Empty(t, intent.CompanyName)
	assert.Empty(t, intent.ServiceKeywords)
}

func TestEntityExtractor_Extract_Chitchat(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: `{"company_name": "CHITCHAT", "service_keywords": "CHITCHAT"}`,
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "thank you!")

	assert.Equal(t, domain.IntentChitchat, intent.Kind)
}

func TestEntityExtractor_Extract_PartialKeepsCompany(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: `{"company_name": "Stripe", "service_keywords": null}`,
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "Tell me about Stripe")

	assert.Equal(t, domain.IntentUnresolved, intent.Kind)
	assert.Equal(t, "Stripe", intent.CompanyName)
	assert.Empty(t, intent.ServiceKeywords)
	assert.True(t, intent.HasCompany())
	assert.False(t, intent.Complete())
}

func TestEntityExtractor_Extract_BothNull(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: `{"company_name": null, "service_keywords": null}`,
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "what is the weather?")

	assert.Equal(t, domain.IntentUnresolved, intent.Kind)
	assert.False(t, intent.HasCompany())
}

func TestEntityExtractor_Extract_MalformedResponse(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: "I cannot extract entities from that.",
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "What does Acme sell?")

	assert.Equal(t, domain.IntentUnresolved, intent.Kind)
	assert.Empty(t, intent.CompanyName)
}

func TestEntityExtractor_Extract_CompletionError(t *testing.T) {
	completion := &mockCompletionService{
		chatErr: errors.New("connection refused"),
	}
	extractor := NewEntityExtractor(completion, time.Second)

	intent := extractor.Extract(context.Background(), "What does Acme sell?")

	assert.Equal(t, domain.IntentUnresolved, intent.Kind)
	assert.Equal(t, 1, completion.chatCalls)
}

func TestEntityExtractor_Extract_NilCompletion(t *testing.T) {
	extractor := NewEntityExtractor(nil, time.Second)

	intent := extractor.Extract(context.Background(), "What does Acme sell?")

	assert.Equal(t, domain.IntentUnresolved, intent.Kind)
}

func TestEntityExtractor_Extract_PromptShape(t *testing.T) {
	completion := &mockCompletionService{
		chatResponse: `{"company_name": "Acme", "service_keywords": "widgets"}`,
	}
	extractor := NewEntityExtractor(completion, time.Second)

	extractor.Extract(context.Background(), "What widgets does Acme make?")

	require.Len(t, completion.lastMessages, 2)
	assert.Equal(t, driven.RoleSystem, completion.lastMessages[0].Role)
	assert.Contains(t, completion.lastMessages[0].Content, "entity extractor")
	assert.Equal(t, driven.RoleUser, completion.lastMessages[1].Role)
	assert.Equal(t, "What widgets does Acme make?", completion.lastMessages[1].Content)
	assert.InDelta(t, 0.1, completion.lastOptions.Temperature, 0.001)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}
