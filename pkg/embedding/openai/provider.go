package openai

import (
	"context"
	"fmt"

	"legifai-be/pkg/embedding"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Provider embeds text with the OpenAI embeddings API
// (text-embedding-3-large, 3072 dimensions by default).
type Provider struct {
	client     openai.Client
	model      string
	dimensions int
}

var _ embedding.EmbeddingProvider = &Provider{}

func NewProvider(apiKey, baseURL, model string, dimensions int) *Provider {
	if model == "" {
		model = "text-embedding-3-large"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Provider{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: dimensions,
	}
}

func (p *Provider) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(p.model),
	}
	if p.dimensions > 0 {
		params.Dimensions = openai.Int(int64(p.dimensions))
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embedding data")
	}

	raw := resp.Data[0].Embedding
	values := make([]float32, len(raw))
	for i, v := range raw {
		values[i] = float32(v)
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: values},
	}, nil
}
