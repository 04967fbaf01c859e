package factory

import (
	"testing"

	"legifai-be/pkg/llm/ollama"
	"legifai-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantType interface{}
	}{
		{"ollama", &ollama.OllamaProvider{}},
		{"openai", &openai.Provider{}},
		{"xai", &openai.Provider{}},
		{"huggingface", &openai.Provider{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := NewLLMProvider(tt.provider, "model", "", "key")
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, p)
		})
	}
}

func TestNewLLMProviderUnknown(t *testing.T) {
	_, err := NewLLMProvider("gemini", "m", "", "")
	assert.ErrorContains(t, err, "unsupported LLM provider")
}
