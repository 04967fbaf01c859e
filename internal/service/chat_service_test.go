package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"legifai-be/internal/dto"
	"legifai-be/internal/pkg/logger"
	"legifai-be/pkg/events"
	"legifai-be/pkg/rag/conversation"
	"legifai-be/pkg/rag/stage"
	"legifai-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsultation struct {
	reply   *conversation.Reply
	err     error
	session *store.Session
	cleared []string
	viewed  []string
}

func (f *fakeConsultation) HandleTurn(ctx context.Context, sessionID, message string) (*conversation.Reply, error) {
	return f.reply, f.err
}

func (f *fakeConsultation) Clear(ctx context.Context, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func (f *fakeConsultation) History(ctx context.Context, sessionID string) (*store.Session, error) {
	f.viewed = append(f.viewed, sessionID)
	if f.err != nil {
		return nil, f.err
	}
	if f.session != nil {
		return f.session, nil
	}
	return store.NewSession(sessionID, time.Now()), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func TestInvokeMapsReplyAndPublishes(t *testing.T) {
	consultation := &fakeConsultation{reply: &conversation.Reply{
		SessionID:      "s1",
		Text:           "Tiene derecho a indemnización.",
		TurnIndex:      1,
		Stage:          stage.Initial,
		ContextFetched: true,
		Excerpts:       []store.DocumentExcerpt{{Content: "Art. 56"}},
	}}
	pub := &recordingPublisher{}
	svc := NewChatService(consultation, pub, logger.NewNopLogger())

	res, err := svc.Invoke(context.Background(), &dto.InvokeRequest{SessionId: "s1", Message: "Me despidieron"})

	require.NoError(t, err)
	assert.Equal(t, "Tiene derecho a indemnización.", res.Reply)
	assert.Equal(t, "INITIAL", res.Stage)
	assert.Equal(t, 1, res.TurnIndex)
	assert.True(t, res.ContextFetched)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeTurnCompleted, pub.events[0].EventType())
	assert.Equal(t, 1, pub.events[0].Payload()["excerpts"])
	assert.NotContains(t, pub.events[0].Payload(), "message")
}

func TestInvokeFailureIsNotPublished(t *testing.T) {
	boom := &conversation.GenerationError{SessionID: "s1", TurnIndex: 2, Err: errors.New("timeout")}
	pub := &recordingPublisher{}
	svc := NewChatService(&fakeConsultation{err: boom}, pub, logger.NewNopLogger())

	_, err := svc.Invoke(context.Background(), &dto.InvokeRequest{SessionId: "s1", Message: "x"})

	var genErr *conversation.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Empty(t, pub.events)
}

func TestPublishFailureDoesNotFailTurn(t *testing.T) {
	consultation := &fakeConsultation{reply: &conversation.Reply{SessionID: "s1", Text: "ok", TurnIndex: 3, Stage: stage.Subsequent}}
	svc := NewChatService(consultation, &recordingPublisher{err: errors.New("nats down")}, logger.NewNopLogger())

	res, err := svc.Invoke(context.Background(), &dto.InvokeRequest{SessionId: "s1", Message: "y"})

	require.NoError(t, err)
	assert.Equal(t, "SUBSEQUENT", res.Stage)
}

func TestCreateSessionMintsPrefixedID(t *testing.T) {
	consultation := &fakeConsultation{}
	svc := NewChatService(consultation, nil, logger.NewNopLogger())

	a, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	b, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.SessionId, SessionIDPrefix))
	assert.NotEqual(t, a.SessionId, b.SessionId)
	assert.NoError(t, store.ValidateSessionID(a.SessionId))
	assert.Equal(t, []string{a.SessionId, b.SessionId}, consultation.viewed)
}

func TestGetHistoryNumbersTurns(t *testing.T) {
	now := time.Now()
	sess := store.NewSession("s1", now)
	sess.Apply(store.Turn{UserText: "hola", AssistantText: "buenas", CreatedAt: now},
		&store.RetrievedContext{Excerpts: []store.DocumentExcerpt{{Content: "Art. 1", Source: "ET"}}})
	sess.Apply(store.Turn{UserText: "¿y?", AssistantText: "pues", CreatedAt: now}, nil)
	svc := NewChatService(&fakeConsultation{session: sess}, nil, logger.NewNopLogger())

	res, err := svc.GetHistory(context.Background(), "s1")

	require.NoError(t, err)
	require.Len(t, res.Turns, 2)
	assert.Equal(t, 1, res.Turns[0].Index)
	assert.Equal(t, 2, res.Turns[1].Index)
	assert.True(t, res.ContextPopulated)
	assert.Equal(t, "ET", res.Context[0].Source)
}

func TestClearSessionPublishes(t *testing.T) {
	consultation := &fakeConsultation{}
	pub := &recordingPublisher{}
	svc := NewChatService(consultation, pub, logger.NewNopLogger())

	require.NoError(t, svc.ClearSession(context.Background(), "s1"))

	assert.Equal(t, []string{"s1"}, consultation.cleared)
	assert.Equal(t, []string{events.TypeSessionCleared}, pub.types())
}
