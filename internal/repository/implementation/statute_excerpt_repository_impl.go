package implementation

import (
	"context"

	"legifai-be/internal/entity"
	"legifai-be/internal/mapper"
	"legifai-be/internal/model"
	"legifai-be/internal/repository/contract"
	"legifai-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type StatuteExcerptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StatuteExcerptMapper
}

func NewStatuteExcerptRepository(db *gorm.DB) contract.StatuteExcerptRepository {
	return &StatuteExcerptRepositoryImpl{
		db:     db,
		mapper: mapper.NewStatuteExcerptMapper(),
	}
}

func (r *StatuteExcerptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StatuteExcerptRepositoryImpl) CreateBulk(ctx context.Context, excerpts []*entity.StatuteExcerpt) error {
	if len(excerpts) == 0 {
		return nil
	}
	models := make([]*model.StatuteExcerpt, len(excerpts))
	for i, e := range excerpts {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*excerpts[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *StatuteExcerptRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	query := r.applySpecifications(r.db.WithContext(ctx), specification.BySource{Source: source})
	return query.Delete(&model.StatuteExcerpt{}).Error
}

func (r *StatuteExcerptRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StatuteExcerpt, error) {
	var models []*model.StatuteExcerpt
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StatuteExcerptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.StatuteExcerpt{}).Count(&count).Error
	return count, err
}

func (r *StatuteExcerptRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredStatuteExcerpt, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity
	type result struct {
		model.StatuteExcerpt
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("statute_excerpts").
		Select("statute_excerpts.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("statute_excerpts.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredStatuteExcerpt, len(results))
	for i := range results {
		scored[i] = &contract.ScoredStatuteExcerpt{
			Excerpt:    r.mapper.ToEntity(&results[i].StatuteExcerpt),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
