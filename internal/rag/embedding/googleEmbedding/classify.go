package googleEmbedding

import (
	"errors"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
)

// classify maps a vendor error onto the shared taxonomy. Google surfaces
// quota exhaustion either as HTTP 429 or as grpc ResourceExhausted depending
// on the transport.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return &ragErrors.RateLimitError{RetryAfter: config.DefaultRetryAfter, Err: err}
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return &ragErrors.RateLimitError{RetryAfter: config.DefaultRetryAfter, Err: err}
	}
	return &ragErrors.ProviderError{Provider: "google", Op: "embed", Err: err}
}
