package openaiEmbedding

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/internal/rag/embedding"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

type client struct {
	openai openai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds the OpenAI embedding backend. BaseURL stays empty for the
// vendor default endpoint; a non-empty value points at a compatible gateway.
func NewClient(settings config.Settings) embedding.Embedder {
	opts := []option.RequestOption{option.WithAPIKey(settings.OpenAIAPIKey)}
	if settings.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.OpenAIBaseURL))
	}

	return &client{
		openai: openai.NewClient(opts...),
		model:  settings.OpenAIEmbeddingModel,
		logger: logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.openai.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, &ragErrors.ProviderError{Provider: "openai", Op: "embed", Err: errors.New("embedding count mismatch")}
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// classify maps a vendor error onto the shared taxonomy. 429s carry the
// provider-supplied Retry-After so the batch upserter can honor it.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		retryAfter := config.DefaultRetryAfter
		if apiErr.Response != nil {
			if secs, convErr := strconv.Atoi(apiErr.Response.Header.Get("Retry-After")); convErr == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return &ragErrors.RateLimitError{RetryAfter: retryAfter, Err: err}
	}
	return &ragErrors.ProviderError{Provider: "openai", Op: "embed", Err: err}
}
