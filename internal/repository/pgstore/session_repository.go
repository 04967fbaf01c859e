package pgstore

import (
	"context"
	"fmt"
	"time"

	"legifai-be/internal/entity"
	"legifai-be/internal/mapper"
	"legifai-be/internal/repository/specification"
	"legifai-be/internal/repository/unitofwork"
	"legifai-be/pkg/store"
)

// SessionRepository keeps sessions in the consultation_sessions table.
// Rows persist until cleared.
type SessionRepository struct {
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.ConsultationMapper
	now        func() time.Time
}

func NewSessionRepository(uowFactory unitofwork.RepositoryFactory) *SessionRepository {
	return &SessionRepository{
		uowFactory: uowFactory,
		mapper:     mapper.NewConsultationMapper(),
		now:        time.Now,
	}
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConsultationSessionRepository()

	now := r.now()
	if err := repo.Create(ctx, &entity.ConsultationSession{
		SessionKey: sessionID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("failed to create session %s: %w", sessionID, err)
	}

	found, err := repo.FindOne(ctx, specification.BySessionKey{SessionKey: sessionID})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("session %s vanished after create", sessionID)
	}
	return r.mapper.ToSession(found), nil
}

func (r *SessionRepository) AppendTurn(ctx context.Context, sessionID string, turn store.Turn, retrieved *store.RetrievedContext) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			panic(p)
		}
	}()

	repo := uow.ConsultationSessionRepository()
	found, err := repo.FindOne(ctx,
		specification.BySessionKey{SessionKey: sessionID},
		specification.ForUpdate{},
	)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	if found == nil {
		_ = uow.Rollback()
		return fmt.Errorf("%w: %s", store.ErrInvalidSession, sessionID)
	}

	session := r.mapper.ToSession(found)
	session.Apply(turn, retrieved)
	found.Turns = session.Turns
	found.Context = session.Context

	if err := repo.Update(ctx, found); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (r *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConsultationSessionRepository()

	now := r.now()
	empty := &entity.ConsultationSession{SessionKey: sessionID, CreatedAt: now, UpdatedAt: now}
	// Update only touches an existing row; unknown sessions stay absent.
	return repo.Update(ctx, empty)
}

func (r *SessionRepository) Close() error {
	return nil
}
