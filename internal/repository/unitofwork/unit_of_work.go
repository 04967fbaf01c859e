package unitofwork

import (
	"context"

	"legifai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConsultationSessionRepository() contract.ConsultationSessionRepository
	StatuteExcerptRepository() contract.StatuteExcerptRepository
}
