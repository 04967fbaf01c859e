package mapper

import (
	"testing"
	"time"

	"legifai-be/internal/entity"
	"legifai-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultationMapperUnpopulatedContextIsNull(t *testing.T) {
	m := NewConsultationMapper()

	row, err := m.ToModel(&entity.ConsultationSession{SessionKey: "s1"})
	require.NoError(t, err)
	assert.Nil(t, row.Context)
	assert.JSONEq(t, `[]`, string(row.Turns))
	assert.Equal(t, 0, row.TurnCount)

	back, err := m.ToEntity(row)
	require.NoError(t, err)
	assert.False(t, back.Context.Populated)
	assert.NotNil(t, back.Turns)
}

func TestConsultationMapperKeepsTurnOrder(t *testing.T) {
	m := NewConsultationMapper()
	now := time.Now().UTC().Truncate(time.Second)
	in := &entity.ConsultationSession{
		SessionKey: "s1",
		Turns: []store.Turn{
			{UserText: "u1", AssistantText: "a1", CreatedAt: now},
			{UserText: "u2", AssistantText: "a2", CreatedAt: now},
		},
		Context: store.RetrievedContext{Populated: true, Excerpts: []store.DocumentExcerpt{{Content: "Art. 1"}}},
	}

	row, err := m.ToModel(in)
	require.NoError(t, err)
	assert.Equal(t, 2, row.TurnCount)

	out, err := m.ToEntity(row)
	require.NoError(t, err)
	assert.Equal(t, in.Turns, out.Turns)
	assert.Equal(t, in.Context.Excerpts, out.Context.Excerpts)

	session := m.ToSession(out)
	assert.Equal(t, 3, session.NextTurnIndex())
}
