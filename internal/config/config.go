package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Ai       AIConfig
	Ingest   IngestConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string // empty disables bearer auth
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type SessionConfig struct {
	Store       string // "memory", "file", "redis" or "postgres"
	Dir         string // used by the file store
	TTL         time.Duration
	LockWait    time.Duration
	TurnTimeout time.Duration
}

type AIConfig struct {
	LLMProvider string // "ollama", "huggingface", "openai" or "xai"
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string
	Temperature float64

	EmbeddingProvider   string // "ollama" or "openai"
	EmbeddingModel      string
	EmbeddingBaseURL    string
	EmbeddingAPIKey     string
	EmbeddingDimensions int

	TopK                int
	SimilarityThreshold float64
}

type IngestConfig struct {
	Topic        string
	ChunkSize    int
	ChunkOverlap int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	llmProvider := getEnv("LLM_PROVIDER", "ollama")
	embeddingProvider := getEnv("EMBEDDING_PROVIDER", "ollama")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/legifai.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		Session: SessionConfig{
			Store:       getEnv("SESSION_STORE", "memory"),
			Dir:         getEnv("SESSION_DIR", "chat_histories"),
			TTL:         getEnvAsDuration("SESSION_TTL", time.Hour),
			LockWait:    getEnvAsDuration("LOCK_WAIT_TIMEOUT", 30*time.Second),
			TurnTimeout: getEnvAsDuration("TURN_TIMEOUT", 90*time.Second),
		},
		Ai: AIConfig{
			LLMProvider: llmProvider,
			LLMModel:    getEnv("LLM_MODEL", defaultLLMModel(llmProvider)),
			LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:   llmAPIKey(llmProvider),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.3),

			EmbeddingProvider:   embeddingProvider,
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", defaultEmbeddingModel(embeddingProvider)),
			EmbeddingBaseURL:    getEnv("EMBEDDING_BASE_URL", ""),
			EmbeddingAPIKey:     getEnv("OPENAI_API_KEY", ""),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 0),

			TopK:                getEnvAsInt("RETRIEVER_TOP_K", 5),
			SimilarityThreshold: getEnvAsFloat("RETRIEVER_MIN_SIMILARITY", 0),
		},
		Ingest: IngestConfig{
			Topic:        getEnv("INGEST_TOPIC_NAME", "INGEST_STATUTE"),
			ChunkSize:    getEnvAsInt("INGEST_CHUNK_SIZE", 1000),
			ChunkOverlap: getEnvAsInt("INGEST_CHUNK_OVERLAP", 200),
		},
	}
}

// Validate reports every missing setting the selected providers need.
func (c *Config) Validate() error {
	var errs []error

	switch c.Ai.LLMProvider {
	case "openai", "xai", "huggingface":
		if c.Ai.LLMAPIKey == "" {
			errs = append(errs, fmt.Errorf("API key required for LLM provider %q", c.Ai.LLMProvider))
		}
	case "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER %q", c.Ai.LLMProvider))
	}

	switch c.Ai.EmbeddingProvider {
	case "openai":
		if c.Ai.EmbeddingAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY required for openai embeddings"))
		}
	case "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported EMBEDDING_PROVIDER %q", c.Ai.EmbeddingProvider))
	}

	if c.Database.Connection == "" {
		errs = append(errs, errors.New("DB_CONNECTION_STRING required for statute retrieval"))
	}

	switch c.Session.Store {
	case "memory", "file", "redis", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Store))
	}

	if c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		errs = append(errs, errors.New("INGEST_CHUNK_OVERLAP must be smaller than INGEST_CHUNK_SIZE"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func defaultLLMModel(provider string) string {
	switch provider {
	case "xai":
		return "grok-3-mini"
	case "openai":
		return "gpt-4o-mini"
	case "huggingface":
		return "meta-llama/Llama-3.1-8B-Instruct"
	default:
		return "llama3"
	}
}

func defaultEmbeddingModel(provider string) string {
	if provider == "openai" {
		return "text-embedding-3-large"
	}
	return "nomic-embed-text"
}

func llmAPIKey(provider string) string {
	switch provider {
	case "xai":
		return getEnv("XAI_API_KEY", "")
	case "openai":
		return getEnv("OPENAI_API_KEY", "")
	case "huggingface":
		return getEnv("HF_API_KEY", "")
	default:
		return ""
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
