package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"legifai-be/internal/dto"
	"legifai-be/internal/entity"
	"legifai-be/internal/pkg/logger"
	"legifai-be/internal/repository/unitofwork"
	"legifai-be/pkg/embedding"
	"legifai-be/pkg/events"
	"legifai-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type ChunkConfig struct {
	Size    int
	Overlap int
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	publisher         events.Publisher
	chunks            ChunkConfig
	logger            logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	publisher events.Publisher,
	chunks ChunkConfig,
	logger logger.ILogger,
) IConsumerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisher:         publisher,
		chunks:            chunks,
		logger:            logger,
	}
}

// Consume subscribes to the ingestion topic and processes messages in the
// background until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestStatuteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	n, err := cs.ingest(ctx, payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Statute ingestion failed", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("ConsumerService", "Statute ingested", map[string]interface{}{
		"source": payload.Source,
		"chunks": n,
	})
	if err := cs.publisher.Publish(ctx, events.StatuteIngested(payload.Source, n)); err != nil {
		cs.logger.Warn("ConsumerService", "Failed to publish ingestion event", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
	}
	msg.Ack()
}

// ingest replaces every excerpt of a source with freshly embedded chunks.
func (cs *consumerService) ingest(ctx context.Context, payload dto.IngestStatuteMessage) (int, error) {
	chunks := utils.SplitText(payload.Content, cs.chunks.Size, cs.chunks.Overlap)
	cs.logger.Debug("ConsumerService", "Content split", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(chunks),
	})

	now := time.Now()
	excerpts := make([]*entity.StatuteExcerpt, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		excerpts = append(excerpts, &entity.StatuteExcerpt{
			Id:             uuid.New(),
			Content:        chunk,
			Source:         payload.Source,
			ChunkIndex:     i,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      now,
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.StatuteExcerptRepository().DeleteBySource(ctx, payload.Source); err != nil {
		return 0, fmt.Errorf("failed to delete old excerpts: %w", err)
	}
	if err := uow.StatuteExcerptRepository().CreateBulk(ctx, excerpts); err != nil {
		return 0, fmt.Errorf("failed to store excerpts: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(excerpts), nil
}
