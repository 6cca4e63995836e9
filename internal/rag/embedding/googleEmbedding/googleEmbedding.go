package googleEmbedding

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/internal/rag/embedding"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

var dimension = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds the Google embedding backend.
func NewClient(ctx context.Context, settings config.Settings) (embedding.Embedder, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: settings.GeminiAPIKey})
	if err != nil {
		return nil, &ragErrors.ProviderError{Provider: "google", Op: "init", Err: err}
	}

	return &client{
		genAi:  c,
		model:  settings.GoogleEmbeddingModel,
		logger: logger_i.NewLogger("google_embedding"),
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, &ragErrors.ProviderError{Provider: "google", Op: "embed", Err: errors.New("embedding count mismatch")}
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, e := range result.Embeddings {
		if len(e.Values) != int(dimension) {
			return nil, &ragErrors.ProviderError{
				Provider: "google",
				Op:       "embed",
				Err:      fmt.Errorf("vector dimension %d, want %d", len(e.Values), dimension),
			}
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}
