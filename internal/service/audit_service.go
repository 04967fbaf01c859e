package service

import (
	"context"

	"legifai-be/internal/pkg/logger"
	"legifai-be/pkg/events"
	pktNats "legifai-be/pkg/nats"
)

// EventSource is the subscribing half of the event bus.
type EventSource interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error
}

type IAuditService interface {
	Start(ctx context.Context) error
}

// auditService writes every bus event to the structured log.
type auditService struct {
	source EventSource
	logger logger.ILogger
}

func NewAuditService(source EventSource, logger logger.ILogger) IAuditService {
	return &auditService{source: source, logger: logger}
}

func (s *auditService) Start(ctx context.Context) error {
	return s.source.Subscribe(ctx, "events.>", "legifai-audit", s.handle)
}

func (s *auditService) handle(ctx context.Context, event events.Event) error {
	details := map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	s.logger.Info("Audit", "Event received", details)
	return nil
}
