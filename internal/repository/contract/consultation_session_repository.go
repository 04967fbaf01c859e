package contract

import (
	"context"

	"legifai-be/internal/entity"
	"legifai-be/internal/repository/specification"
)

type ConsultationSessionRepository interface {
	// Create inserts the session unless one with the same key exists.
	Create(ctx context.Context, session *entity.ConsultationSession) error
	Update(ctx context.Context, session *entity.ConsultationSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConsultationSession, error)
}
