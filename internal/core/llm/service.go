package llm

import (
	"context"
	"fmt"
	"log"
)

// Service wraps an optional LLM provider. A Service without a provider is
// valid and reports Enabled() == false.
type Service struct {
	provider LLMProvider
}

// NewService creates the service described by cfg
func NewService(cfg *ProviderConfig) (*Service, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	if provider == nil {
		log.Println("ℹ️ LLM disabled, advisor replies use the canned text")
	} else {
		log.Printf("🤖 Using LLM provider: %s", provider.GetProviderName())
	}
	return &Service{provider: provider}, nil
}

// NewServiceWithProvider creates service with custom provider (for testing)
func NewServiceWithProvider(provider LLMProvider) *Service {
	return &Service{provider: provider}
}

func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// GenerateResponse generates an AI response
func (s *Service) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("llm disabled")
	}
	return s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
}

func (s *Service) GetProviderName() string {
	if !s.Enabled() {
		return "none"
	}
	return s.provider.GetProviderName()
}
