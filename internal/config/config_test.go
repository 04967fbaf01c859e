package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("LLM_PROVIDER", "xai")
	t.Setenv("XAI_API_KEY", "xai-test")

	cfg := Load()

	assert.Equal(t, "grok-3-mini", cfg.Ai.LLMModel)
	assert.Equal(t, "xai-test", cfg.Ai.LLMAPIKey)
	assert.Equal(t, 5, cfg.Ai.TopK)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*time.Second, cfg.Session.LockWait)
	assert.Equal(t, 90*time.Second, cfg.Session.TurnTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("TURN_TIMEOUT", "not-a-duration")
	t.Setenv("RETRIEVER_TOP_K", "8")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 90*time.Second, cfg.Session.TurnTimeout)
	assert.Equal(t, 8, cfg.Ai.TopK)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Connection: "postgres://localhost/legifai"},
			Session:  SessionConfig{Store: "memory"},
			Ai:       AIConfig{LLMProvider: "ollama", EmbeddingProvider: "ollama"},
			Ingest:   IngestConfig{ChunkSize: 1000, ChunkOverlap: 200},
		}
	}

	require.NoError(t, valid().Validate())

	missingKey := valid()
	missingKey.Ai.LLMProvider = "xai"
	assert.ErrorContains(t, missingKey.Validate(), "API key required")

	badStore := valid()
	badStore.Session.Store = "sqlite"
	assert.ErrorContains(t, badStore.Validate(), "SESSION_STORE")

	badChunks := valid()
	badChunks.Ingest.ChunkOverlap = 1000
	assert.ErrorContains(t, badChunks.Validate(), "INGEST_CHUNK_OVERLAP")
}
