package dto

import "time"

type InvokeRequest struct {
	SessionId string `json:"session_id" validate:"required,max=128"`
	Message   string `json:"message" validate:"required,max=8000"`
}

type InvokeResponse struct {
	Reply          string `json:"reply"`
	SessionId      string `json:"session_id"`
	TurnIndex      int    `json:"turn_index"`
	Stage          string `json:"stage"`
	ContextFetched bool   `json:"context_fetched"`
}

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}

type TurnResponse struct {
	Index         int       `json:"index"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	CreatedAt     time.Time `json:"created_at"`
}

type ExcerptResponse struct {
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float32 `json:"score,omitempty"`
}

type SessionHistoryResponse struct {
	SessionId        string            `json:"session_id"`
	Turns            []TurnResponse    `json:"turns"`
	ContextPopulated bool              `json:"context_populated"`
	Context          []ExcerptResponse `json:"context"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ChatFrame is one inbound websocket message. SessionId may be omitted; it
// must match the connection's session when present.
type ChatFrame struct {
	SessionId string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required,max=8000"`
}

// ChatFrameReply is written back for every inbound frame. Exactly one of
// Reply or Error is set.
type ChatFrameReply struct {
	*InvokeResponse
	Error string `json:"error,omitempty"`
}
