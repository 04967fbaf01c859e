package mapper

import (
	"encoding/json"
	"fmt"

	"legifai-be/internal/entity"
	"legifai-be/internal/model"
	"legifai-be/pkg/store"

	"gorm.io/datatypes"
)

type ConsultationMapper struct{}

func NewConsultationMapper() *ConsultationMapper {
	return &ConsultationMapper{}
}

func (m *ConsultationMapper) ToEntity(s *model.ConsultationSession) (*entity.ConsultationSession, error) {
	if s == nil {
		return nil, nil
	}

	turns := []store.Turn{}
	if len(s.Turns) > 0 {
		if err := json.Unmarshal(s.Turns, &turns); err != nil {
			return nil, fmt.Errorf("failed to decode turns of %s: %w", s.SessionKey, err)
		}
	}

	var retrieved store.RetrievedContext
	if len(s.Context) > 0 && string(s.Context) != "null" {
		if err := json.Unmarshal(s.Context, &retrieved); err != nil {
			return nil, fmt.Errorf("failed to decode context of %s: %w", s.SessionKey, err)
		}
	}

	return &entity.ConsultationSession{
		SessionKey: s.SessionKey,
		Turns:      turns,
		Context:    retrieved,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}, nil
}

func (m *ConsultationMapper) ToModel(s *entity.ConsultationSession) (*model.ConsultationSession, error) {
	if s == nil {
		return nil, nil
	}

	turns := s.Turns
	if turns == nil {
		turns = []store.Turn{}
	}
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return nil, err
	}

	var contextJSON datatypes.JSON
	if s.Context.Populated {
		raw, err := json.Marshal(s.Context)
		if err != nil {
			return nil, err
		}
		contextJSON = datatypes.JSON(raw)
	}

	return &model.ConsultationSession{
		SessionKey: s.SessionKey,
		Turns:      datatypes.JSON(turnsJSON),
		Context:    contextJSON,
		TurnCount:  len(turns),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}, nil
}

// ToSession converts the entity into the domain session.
func (m *ConsultationMapper) ToSession(s *entity.ConsultationSession) *store.Session {
	return &store.Session{
		ID:        s.SessionKey,
		Turns:     s.Turns,
		Context:   s.Context,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
