package mapper

import (
	"time"

	"legifai-be/internal/entity"
	"legifai-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type StatuteExcerptMapper struct{}

func NewStatuteExcerptMapper() *StatuteExcerptMapper {
	return &StatuteExcerptMapper{}
}

func (m *StatuteExcerptMapper) ToEntity(e *model.StatuteExcerpt) *entity.StatuteExcerpt {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.StatuteExcerpt{
		Id:             e.Id,
		Content:        e.Content,
		Source:         e.Source,
		ChunkIndex:     e.ChunkIndex,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *StatuteExcerptMapper) ToModel(e *entity.StatuteExcerpt) *model.StatuteExcerpt {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.StatuteExcerpt{
		Id:             e.Id,
		Content:        e.Content,
		Source:         e.Source,
		ChunkIndex:     e.ChunkIndex,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *StatuteExcerptMapper) ToEntities(excerpts []*model.StatuteExcerpt) []*entity.StatuteExcerpt {
	entities := make([]*entity.StatuteExcerpt, len(excerpts))
	for i, e := range excerpts {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
