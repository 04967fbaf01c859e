package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legifai-be/internal/dto"
	"legifai-be/internal/pkg/logger"
	"legifai-be/internal/repository/specification"
	"legifai-be/internal/repository/unitofwork"
	"legifai-be/pkg/rag/conversation"
)

var ErrStatuteNotFound = errors.New("statute not found")

type IDocumentService interface {
	Ingest(ctx context.Context, req *dto.IngestStatuteRequest) (*dto.IngestStatuteResponse, error)
	Search(ctx context.Context, query string) (*dto.SearchStatuteResponse, error)
	GetSource(ctx context.Context, source string, page, pageSize int) (*dto.StatuteSourceResponse, error)
}

type documentService struct {
	publisher  IPublisherService
	retriever  conversation.Retriever
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewDocumentService(publisher IPublisherService, retriever conversation.Retriever, uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IDocumentService {
	return &documentService{
		publisher:  publisher,
		retriever:  retriever,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Ingest queues statute text for chunking and embedding. Re-ingesting a
// source replaces its previous excerpts.
func (s *documentService) Ingest(ctx context.Context, req *dto.IngestStatuteRequest) (*dto.IngestStatuteResponse, error) {
	source := strings.TrimSpace(req.Source)
	if err := s.publisher.PublishIngest(ctx, dto.IngestStatuteMessage{
		Source:  source,
		Content: req.Content,
	}); err != nil {
		return nil, fmt.Errorf("failed to queue statute %s: %w", source, err)
	}

	s.logger.Info("DocumentService", "Statute queued for ingestion", map[string]interface{}{
		"source": source,
		"length": len(req.Content),
	})
	return &dto.IngestStatuteResponse{Source: source, Queued: true}, nil
}

// Search runs the same retrieval a first consultation turn would.
func (s *documentService) Search(ctx context.Context, query string) (*dto.SearchStatuteResponse, error) {
	excerpts, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, &conversation.RetrievalError{Err: err}
	}
	return &dto.SearchStatuteResponse{
		Query:    query,
		Excerpts: ToExcerptResponses(excerpts),
	}, nil
}

// GetSource lists the stored chunks of one statute in chunk order.
func (s *documentService) GetSource(ctx context.Context, source string, page, pageSize int) (*dto.StatuteSourceResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).StatuteExcerptRepository()
	bySource := specification.BySource{Source: source}

	total, err := repo.Count(ctx, bySource)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStatuteNotFound, source)
	}

	excerpts, err := repo.FindAll(ctx,
		bySource,
		specification.OrderBy{Field: "chunk_index"},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.StatuteChunkResponse, len(excerpts))
	for i, e := range excerpts {
		items[i] = dto.StatuteChunkResponse{ChunkIndex: e.ChunkIndex, Content: e.Content}
	}
	return &dto.StatuteSourceResponse{Source: source, Chunks: total, Items: items}, nil
}
