package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legifai-be/internal/config"
	"legifai-be/internal/controller"
	"legifai-be/internal/pkg/logger"
	"legifai-be/internal/repository/file"
	"legifai-be/internal/repository/memory"
	"legifai-be/internal/repository/pgstore"
	"legifai-be/internal/repository/redisstore"
	"legifai-be/internal/repository/unitofwork"
	"legifai-be/internal/service"
	"legifai-be/internal/websocket"
	"legifai-be/pkg/embedding"
	embeddingOpenAI "legifai-be/pkg/embedding/openai"
	"legifai-be/pkg/events"
	"legifai-be/pkg/llm"
	"legifai-be/pkg/llm/factory"
	pktNats "legifai-be/pkg/nats"
	"legifai-be/pkg/rag/conversation"
	"legifai-be/pkg/rag/response"
	"legifai-be/pkg/rag/search"
	"legifai-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	HealthController   controller.IHealthController

	// Background services, started by main
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService // nil when NATS is not configured
	WebSocketHub    *websocket.Hub

	closers []func() error
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	// 2. Event buses
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS publisher unavailable, events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS subscriber unavailable, audit disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.AuditService = service.NewAuditService(natsSub, sysLogger)
			c.closers = append(c.closers, func() error { natsSub.Close(); return nil })
		}
	}

	// 3. Redis, shared by the redis session store and the websocket hub
	rdb := connectRedis(ctx, cfg, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb.Close)
	}

	// 4. Providers
	embeddingProvider, err := newEmbeddingProvider(cfg)
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    cfg.Ai.EmbeddingModel,
	})

	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, cfg.Ai.LLMAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	sysLogger.Info("Bootstrap", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 5. Session store
	sessionStore, err := newSessionStore(cfg, uowFactory, rdb)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, sessionStore.Close)
	sysLogger.Info("Bootstrap", "Session store ready", map[string]interface{}{"store": cfg.Session.Store})

	// 6. Conversational core
	retriever := search.NewRetriever(embeddingProvider, uowFactory, search.Config{
		TopK:      cfg.Ai.TopK,
		Threshold: cfg.Ai.SimilarityThreshold,
	}, sysLogger)
	generator := response.NewGenerator(llmProvider, sysLogger, llm.WithTemperature(cfg.Ai.Temperature))
	orchestrator := conversation.NewOrchestrator(sessionStore, retriever, generator, conversation.Options{
		LockWait:    cfg.Session.LockWait,
		TurnTimeout: cfg.Session.TurnTimeout,
	}, sysLogger)

	// 7. Services
	chatService := service.NewChatService(orchestrator, publisher, sysLogger)
	documentService := service.NewDocumentService(
		service.NewPublisherService(cfg.Ingest.Topic, pubSub),
		retriever,
		uowFactory,
		sysLogger,
	)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Ingest.Topic,
		uowFactory,
		embeddingProvider,
		publisher,
		service.ChunkConfig{Size: cfg.Ingest.ChunkSize, Overlap: cfg.Ingest.ChunkOverlap},
		sysLogger,
	)

	// 8. Transport
	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	c.ChatController = controller.NewChatController(chatService, c.WebSocketHub, cfg.App.JWTSecret, sysLogger)
	c.DocumentController = controller.NewDocumentController(documentService, cfg.App.JWTSecret)
	c.HealthController = controller.NewHealthController(cfg.Session.Store)

	return c, nil
}

// Close releases everything the container opened, newest first.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel), nil
	case "openai":
		return embeddingOpenAI.NewProvider(
			cfg.Ai.EmbeddingAPIKey,
			cfg.Ai.EmbeddingBaseURL,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDimensions,
		), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}

func newSessionStore(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, rdb *redis.Client) (store.SessionStore, error) {
	switch cfg.Session.Store {
	case "memory":
		return memory.NewSessionRepository(cfg.Session.TTL), nil
	case "file":
		return file.NewSessionRepository(cfg.Session.Dir)
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis session store selected but Redis is unreachable")
		}
		return redisstore.NewSessionRepository(rdb, cfg.Session.TTL), nil
	case "postgres":
		return pgstore.NewSessionRepository(uowFactory), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Session.Store)
	}
}

// connectRedis returns nil when Redis is not reachable; only the redis
// session store treats that as fatal.
func connectRedis(ctx context.Context, cfg *config.Config, log logger.ILogger) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}

	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unreachable", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
