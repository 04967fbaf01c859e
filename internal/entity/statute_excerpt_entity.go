package entity

import (
	"time"

	"github.com/google/uuid"
)

type StatuteExcerpt struct {
	Id             uuid.UUID
	Content        string
	Source         string
	ChunkIndex     int
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
