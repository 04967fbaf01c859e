package contract

import (
	"context"

	"legifai-be/internal/entity"
	"legifai-be/internal/repository/specification"
)

// ScoredStatuteExcerpt wraps StatuteExcerpt with its similarity score
type ScoredStatuteExcerpt struct {
	Excerpt    *entity.StatuteExcerpt
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type StatuteExcerptRepository interface {
	CreateBulk(ctx context.Context, excerpts []*entity.StatuteExcerpt) error
	DeleteBySource(ctx context.Context, source string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StatuteExcerpt, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the closest excerpts by cosine similarity, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredStatuteExcerpt, error)
}
