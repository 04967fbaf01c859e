package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"legifai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatAgainstCompatibleEndpoint(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer xai-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "grok-3-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Artículo 55 ET."}}]
		}`))
	}))
	defer srv.Close()

	p := NewProvider("xai-test", srv.URL, "grok-3-mini")
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "Eres un asesor legal"},
		{Role: "user", Content: "¿Es nulo mi despido?"},
	}, llm.WithTemperature(0.3))

	require.NoError(t, err)
	assert.Equal(t, "Artículo 55 ET.", out)
	assert.Equal(t, "grok-3-mini", body["model"])
	msgs, ok := body["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, msgs, 2)
	assert.Equal(t, 0.3, body["temperature"])
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewProvider("k", srv.URL, "m").Generate(context.Background(), "hola")
	assert.ErrorContains(t, err, "no response choices")
}
