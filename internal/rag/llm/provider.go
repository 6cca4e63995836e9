package llm

import "context"

// Provider wraps a remote chat-completion call. Temperature and
// deployment/model name are fixed at construction. history is the rendered
// sliding window of previous turns; implementations pass it to the model as
// prior conversation context. Provider failures surface as
// ragErrors.ProviderError without retry.
type Provider interface {
	Generate(ctx context.Context, prompt string, history []string) (string, error)
}
