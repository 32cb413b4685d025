package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_None(t *testing.T) {
	svc, err := NewService(&ProviderConfig{Type: ProviderNone})
	require.NoError(t, err)
	assert.False(t, svc.Enabled())
	assert.Equal(t, "none", svc.GetProviderName())

	_, err = svc.GenerateResponse(context.Background(), "sys", "hola")
	assert.Error(t, err)
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Type: ProviderGroq})
	assert.ErrorContains(t, err, "GROQ_API_KEY")

	_, err = NewProvider(&ProviderConfig{Type: "gemini"})
	assert.Error(t, err)
}

func TestNewProvider_VendorDefaults(t *testing.T) {
	p, err := NewProvider(&ProviderConfig{Type: ProviderDeepSeek, DeepSeekKey: "k"})
	require.NoError(t, err)
	chat := p.(*ChatProvider)
	assert.Equal(t, "DeepSeek", chat.GetProviderName())
	assert.Equal(t, "deepseek-chat", chat.model)
	assert.Equal(t, float32(0.7), chat.temperature)

	p, err = NewProvider(&ProviderConfig{Type: ProviderGroq, GroqKey: "k", Model: "llama-3.3-70b-versatile", MaxTokens: 400})
	require.NoError(t, err)
	chat = p.(*ChatProvider)
	assert.Equal(t, "llama-3.3-70b-versatile", chat.model)
	assert.Equal(t, 400, chat.maxTokens)
}

func TestChatProvider_GenerateResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "gpt-4o-mini", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "¡Hola! El pedido mínimo es 5 kg."},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	svc, err := NewService(&ProviderConfig{Type: ProviderOpenAI, OpenAIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	reply, err := svc.GenerateResponse(context.Background(), "sys", "¿pedido mínimo?")
	require.NoError(t, err)
	assert.Equal(t, "¡Hola! El pedido mínimo es 5 kg.", reply)
	assert.Equal(t, "OpenAI", svc.GetProviderName())
}

func TestBuildAdvisorPrompt(t *testing.T) {
	prompt := BuildAdvisorPrompt(&BusinessProfile{
		Name:     "Coffee Express",
		City:     "Lima, Perú",
		Currency: "S/",
		MinKg:    5,
		BulkKg:   50,
		BulkRate: 0.10,
		Products: []Product{{Name: "Café Premium", Origin: "Chanchamayo", Price: 50}},
	})

	assert.Contains(t, prompt, "Coffee Express")
	assert.Contains(t, prompt, "- Café Premium (Chanchamayo): S/ 50.00 por kg")
	assert.Contains(t, prompt, "Pedido mínimo: 5 kg")
	assert.Contains(t, prompt, "Descuento de 10% desde 50 kg")
}
