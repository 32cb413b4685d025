package llm

import (
	"context"
	"fmt"
)

// LLMProvider answers one customer question under a system prompt
type LLMProvider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
}

// ProviderType selects the vendor (LLM_PROVIDER)
type ProviderType string

const (
	ProviderNone     ProviderType = "none"
	ProviderOpenAI   ProviderType = "openai"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
)

// ProviderConfig for creating a provider
type ProviderConfig struct {
	Type ProviderType

	OpenAIKey   string
	GroqKey     string
	DeepSeekKey string

	// Model overrides the vendor default
	Model       string
	Temperature float32
	MaxTokens   int
	// BaseURL overrides the vendor endpoint
	BaseURL string
}

// vendor is an OpenAI-compatible chat endpoint
type vendor struct {
	name    string
	baseURL string
	model   string
	keyEnv  string
}

var vendors = map[ProviderType]vendor{
	ProviderOpenAI: {
		name:   "OpenAI",
		model:  "gpt-4o-mini",
		keyEnv: "OPENAI_API_KEY",
	},
	ProviderGroq: {
		name:    "Groq",
		baseURL: "https://api.groq.com/openai/v1",
		model:   "llama-3.1-8b-instant",
		keyEnv:  "GROQ_API_KEY",
	},
	ProviderDeepSeek: {
		name:    "DeepSeek",
		baseURL: "https://api.deepseek.com",
		model:   "deepseek-chat",
		keyEnv:  "DEEPSEEK_API_KEY",
	},
}

func (c *ProviderConfig) apiKey() string {
	switch c.Type {
	case ProviderOpenAI:
		return c.OpenAIKey
	case ProviderGroq:
		return c.GroqKey
	case ProviderDeepSeek:
		return c.DeepSeekKey
	}
	return ""
}

// NewProvider creates the configured provider. ProviderNone returns (nil, nil)
// and the advisor step answers with its canned text.
func NewProvider(cfg *ProviderConfig) (LLMProvider, error) {
	if cfg.Type == ProviderNone || cfg.Type == "" {
		return nil, nil
	}

	v, ok := vendors[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
	key := cfg.apiKey()
	if key == "" {
		return nil, fmt.Errorf("%s is required for LLM_PROVIDER=%s", v.keyEnv, cfg.Type)
	}

	if cfg.BaseURL != "" {
		v.baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		v.model = cfg.Model
	}
	return newChatProvider(v, key, cfg.Temperature, cfg.MaxTokens), nil
}
