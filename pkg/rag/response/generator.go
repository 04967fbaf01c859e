package response

import (
	"context"
	"errors"
	"strings"

	"legifai-be/internal/pkg/logger"
	"legifai-be/pkg/llm"
	"legifai-be/pkg/rag/prompt"
)

var ErrEmptyResponse = errors.New("model returned an empty response")

// Generator sends assembled requests to a chat model.
type Generator struct {
	llmProvider llm.LLMProvider
	options     []llm.Option
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, logger logger.ILogger, options ...llm.Option) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		options:     options,
		logger:      logger,
	}
}

// Generate returns the trimmed model reply. A blank reply is an error so it
// never becomes part of a session transcript.
func (g *Generator) Generate(ctx context.Context, req *prompt.Request) (string, error) {
	out, err := g.llmProvider.Chat(ctx, req.Messages(), g.options...)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyResponse
	}

	g.logger.Debug("generation", "Answer generated", map[string]interface{}{
		"stage":  req.Stage.String(),
		"length": len(out),
	})
	return out, nil
}
