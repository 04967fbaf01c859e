package events

import (
	"context"
	"time"
)

const (
	TypeTurnCompleted  = "session.turn_completed"
	TypeSessionCleared = "session.cleared"
	TypeStatuteIngest  = "statute.ingested"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "session.cleared").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to whatever bus is configured.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TurnCompleted is emitted after a turn has been committed to its session.
// Message text is left out; only the shape of the turn is reported.
func TurnCompleted(sessionID string, turnIndex int, stage string, contextFetched bool, excerpts int) BaseEvent {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id":      sessionID,
			"turn_index":      turnIndex,
			"stage":           stage,
			"context_fetched": contextFetched,
			"excerpts":        excerpts,
		},
		OccurredAt: time.Now(),
	}
}

func SessionCleared(sessionID string) BaseEvent {
	return BaseEvent{
		Type:       TypeSessionCleared,
		Data:       map[string]interface{}{"session_id": sessionID},
		OccurredAt: time.Now(),
	}
}

func StatuteIngested(source string, chunks int) BaseEvent {
	return BaseEvent{
		Type: TypeStatuteIngest,
		Data: map[string]interface{}{
			"source": source,
			"chunks": chunks,
		},
		OccurredAt: time.Now(),
	}
}

// NopPublisher drops every event. It stands in when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }
