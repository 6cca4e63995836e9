package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/internal/rag/llm"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

type llmClient struct {
	genAi       *genai.Client
	model       string
	temperature float32
	logger      *logger_i.Logger
}

// NewClient builds the Gemini chat backend.
func NewClient(ctx context.Context, settings config.Settings) (llm.Provider, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: settings.GeminiAPIKey})
	if err != nil {
		return nil, &ragErrors.ProviderError{Provider: "google", Op: "init", Err: err}
	}

	return &llmClient{
		genAi:       c,
		model:       settings.GeminiModelName,
		temperature: settings.Temperature,
		logger:      logger_i.NewLogger("llm_gemini"),
	}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string, history []string) (string, error) {
	contentConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if len(history) > 0 {
		contentConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: "Previous conversation turns, oldest first:\n" + strings.Join(history, "\n")},
			},
		}
	}

	result, err := c.genAi.Models.GenerateContent(ctx, c.model, genai.Text(prompt), contentConfig)
	if err != nil {
		return "", classify(err)
	}
	if result == nil || result.Text() == "" {
		return "", &ragErrors.ProviderError{Provider: "google", Op: "chat", Err: errors.New("empty completion")}
	}
	return result.Text(), nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return &ragErrors.RateLimitError{RetryAfter: config.DefaultRetryAfter, Err: err}
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return &ragErrors.RateLimitError{RetryAfter: config.DefaultRetryAfter, Err: err}
	}
	return &ragErrors.ProviderError{Provider: "google", Op: "chat", Err: err}
}
