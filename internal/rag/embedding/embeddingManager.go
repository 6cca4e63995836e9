package embedding

import "context"

// Embedder converts text into fixed-length vectors via a remote model call.
// Implementations surface provider failures as ragErrors.ProviderError (or
// ragErrors.RateLimitError for 429 equivalents) and never retry themselves.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
