package service

import (
	"context"

	"legifai-be/internal/dto"
	"legifai-be/internal/pkg/logger"
	"legifai-be/pkg/events"
	"legifai-be/pkg/rag/conversation"
	"legifai-be/pkg/store"

	"github.com/google/uuid"
)

// SessionIDPrefix matches the ids the chat widget generates on its own.
const SessionIDPrefix = "session-"

// Consultation is the conversational core the chat service drives.
type Consultation interface {
	HandleTurn(ctx context.Context, sessionID, message string) (*conversation.Reply, error)
	Clear(ctx context.Context, sessionID string) error
	History(ctx context.Context, sessionID string) (*store.Session, error)
}

type IChatService interface {
	Invoke(ctx context.Context, req *dto.InvokeRequest) (*dto.InvokeResponse, error)
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetHistory(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	consultation Consultation
	publisher    events.Publisher
	logger       logger.ILogger
}

func NewChatService(consultation Consultation, publisher events.Publisher, logger logger.ILogger) IChatService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &chatService{
		consultation: consultation,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *chatService) Invoke(ctx context.Context, req *dto.InvokeRequest) (*dto.InvokeResponse, error) {
	reply, err := s.consultation.HandleTurn(ctx, req.SessionId, req.Message)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TurnCompleted(
		reply.SessionID,
		reply.TurnIndex,
		reply.Stage.String(),
		reply.ContextFetched,
		len(reply.Excerpts),
	))

	return &dto.InvokeResponse{
		Reply:          reply.Text,
		SessionId:      reply.SessionID,
		TurnIndex:      reply.TurnIndex,
		Stage:          reply.Stage.String(),
		ContextFetched: reply.ContextFetched,
	}, nil
}

// CreateSession mints a fresh id and materializes the empty session so the
// id is immediately valid for history lookups.
func (s *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	id := SessionIDPrefix + uuid.NewString()
	if _, err := s.consultation.History(ctx, id); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{SessionId: id}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error) {
	sess, err := s.consultation.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionHistoryResponse{
		SessionId:        sess.ID,
		Turns:            make([]dto.TurnResponse, 0, len(sess.Turns)),
		ContextPopulated: sess.Context.Populated,
		Context:          ToExcerptResponses(sess.Context.Excerpts),
		CreatedAt:        sess.CreatedAt,
		UpdatedAt:        sess.UpdatedAt,
	}
	for i, t := range sess.Turns {
		res.Turns = append(res.Turns, dto.TurnResponse{
			Index:         i + 1,
			UserText:      t.UserText,
			AssistantText: t.AssistantText,
			CreatedAt:     t.CreatedAt,
		})
	}
	return res, nil
}

func (s *chatService) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.consultation.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.publish(ctx, events.SessionCleared(sessionID))
	return nil
}

// publish never fails the request; the turn is already committed.
func (s *chatService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("ChatService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func ToExcerptResponses(excerpts []store.DocumentExcerpt) []dto.ExcerptResponse {
	out := make([]dto.ExcerptResponse, 0, len(excerpts))
	for _, e := range excerpts {
		out = append(out, dto.ExcerptResponse{Content: e.Content, Source: e.Source, Score: e.Score})
	}
	return out
}
