package implementation

import (
	"context"
	"errors"

	"legifai-be/internal/entity"
	"legifai-be/internal/mapper"
	"legifai-be/internal/model"
	"legifai-be/internal/repository/contract"
	"legifai-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConsultationSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConsultationMapper
}

func NewConsultationSessionRepository(db *gorm.DB) contract.ConsultationSessionRepository {
	return &ConsultationSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewConsultationMapper(),
	}
}

func (r *ConsultationSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConsultationSessionRepositoryImpl) Create(ctx context.Context, session *entity.ConsultationSession) error {
	m, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_key"}}, DoNothing: true}).
		Create(m).Error
}

func (r *ConsultationSessionRepositoryImpl) Update(ctx context.Context, session *entity.ConsultationSession) error {
	m, err := r.mapper.ToModel(session)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&model.ConsultationSession{}).
		Where("session_key = ?", m.SessionKey).
		Updates(map[string]interface{}{
			"turns":      m.Turns,
			"context":    m.Context,
			"turn_count": m.TurnCount,
		}).Error
}

func (r *ConsultationSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConsultationSession, error) {
	var m model.ConsultationSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}
