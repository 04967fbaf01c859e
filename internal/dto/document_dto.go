package dto

type IngestStatuteRequest struct {
	Source  string `json:"source" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type IngestStatuteResponse struct {
	Source string `json:"source"`
	Queued bool   `json:"queued"`
}

// IngestStatuteMessage is the payload carried on the ingestion topic.
type IngestStatuteMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

type SearchStatuteRequest struct {
	Query string `query:"q" validate:"required,max=2000"`
}

type SearchStatuteResponse struct {
	Query    string            `json:"query"`
	Excerpts []ExcerptResponse `json:"excerpts"`
}

type StatuteChunkResponse struct {
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}

type StatuteSourceResponse struct {
	Source string                 `json:"source"`
	Chunks int64                  `json:"chunks"`
	Items  []StatuteChunkResponse `json:"items"`
}
