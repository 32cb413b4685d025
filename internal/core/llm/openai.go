package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatProvider talks to any OpenAI-compatible chat completion API
type ChatProvider struct {
	name        string
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func newChatProvider(v vendor, apiKey string, temperature float32, maxTokens int) *ChatProvider {
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 300
	}

	config := openai.DefaultConfig(apiKey)
	if v.baseURL != "" {
		config.BaseURL = v.baseURL
	}
	config.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &ChatProvider{
		name:        v.name,
		client:      openai.NewClientWithConfig(config),
		model:       v.model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (p *ChatProvider) GetProviderName() string {
	return p.name
}

func (p *ChatProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}

	return resp.Choices[0].Message.Content, nil
}
