package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/mapsafe"
)

// ChatBackend generates text with the chat completions API.
type ChatBackend struct {
	client *goopenai.Client
}

// NewChatBackend creates a new chat backend.
func NewChatBackend(client *goopenai.Client) *ChatBackend {
	return &ChatBackend{client: client}
}

// Provider returns the backend provider.
func (b *ChatBackend) Provider() backend.BackendProvider {
	return backend.BackendProviderOpenAIChat
}

// Infer sends req.Input as the user message.
//
// Parameters: model, system_prompt, temperature, max_tokens.
func (b *ChatBackend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	prompt, err := readInput(req.Input)
	if err != nil {
		return nil, err
	}

	p := req.Parameters

	var messages []goopenai.ChatCompletionMessage
	if system := mapsafe.Get(p, "system_prompt", ""); system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})

	chatReq := goopenai.ChatCompletionRequest{
		Model:       mapsafe.Get(p, "model", "gpt-4.1-mini"),
		Messages:    messages,
		Temperature: float32(mapsafe.Get(p, "temperature", 0.8)),
		MaxTokens:   mapsafe.Get(p, "max_tokens", 0),
	}

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: chat completion returned no choices: %w", backend.ErrEmptyOutput)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("openai: chat completion returned empty content: %w", backend.ErrEmptyOutput)
	}

	return &backend.Response{
		Output: strings.NewReader(text),
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Model:       resp.Model,
			Timestamp:   time.Now(),
			OutputBytes: int64(len(text)),
			BackendSpecific: map[string]any{
				"finish_reason":     string(resp.Choices[0].FinishReason),
				"prompt_tokens":     resp.Usage.PromptTokens,
				"completion_tokens": resp.Usage.CompletionTokens,
			},
		},
	}, nil
}

// Close cleans up resources. The chat backend holds none.
func (b *ChatBackend) Close() error {
	return nil
}
