// Package embedding turns update text into vectors for the stall detector.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = string(openai.EmbeddingModelTextEmbedding3Small)

// EmbeddingsAPI is the slice of the OpenAI client used here.
type EmbeddingsAPI interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// OpenAIEmbedder calls the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	api   EmbeddingsAPI
	model string
}

// NewOpenAIEmbedder builds an embedder with its own client.
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return NewOpenAIEmbedderWithAPI(&client.Embeddings, model)
}

// NewOpenAIEmbedderWithAPI builds an embedder over api.
func NewOpenAIEmbedderWithAPI(api EmbeddingsAPI, model string) *OpenAIEmbedder {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIEmbedder{api: api, model: model}
}

// Embed returns the vector for text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	resp, err := e.api.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if resp == nil || len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrEmbeddingFailed)
	}
	return resp.Data[0].Embedding, nil
}
