package search

import (
	"context"
	"fmt"

	"legifai-be/internal/pkg/logger"
	"legifai-be/internal/repository/unitofwork"
	"legifai-be/pkg/embedding"
	"legifai-be/pkg/store"
)

// Config encapsulates search parameters
type Config struct {
	TopK      int
	Threshold float64 // minimum cosine similarity kept by the database
}

func DefaultConfig() Config {
	return Config{
		TopK:      5,
		Threshold: 0.0,
	}
}

// Retriever embeds the query and runs a cosine search over statute excerpts.
// Results keep the database ranking, best match first.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	uowFactory        unitofwork.RepositoryFactory
	config            Config
	logger            logger.ILogger
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	uowFactory unitofwork.RepositoryFactory,
	config Config,
	logger logger.ILogger,
) *Retriever {
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	return &Retriever{
		embeddingProvider: embeddingProvider,
		uowFactory:        uowFactory,
		config:            config,
		logger:            logger,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]store.DocumentExcerpt, error) {
	embeddingRes, err := r.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.StatuteExcerptRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		r.config.TopK,
		r.config.Threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	excerpts := make([]store.DocumentExcerpt, 0, len(scored))
	for _, s := range scored {
		excerpts = append(excerpts, store.DocumentExcerpt{
			Content: s.Excerpt.Content,
			Source:  s.Excerpt.Source,
			Score:   float32(s.Similarity),
		})
	}

	r.logger.Debug("search", "Statute excerpts retrieved", map[string]interface{}{
		"count": len(excerpts),
		"top_k": r.config.TopK,
	})

	return excerpts, nil
}
