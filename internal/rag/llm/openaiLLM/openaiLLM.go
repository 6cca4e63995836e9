package openaiLLM

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/internal/rag/llm"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

type llmClient struct {
	openai      openai.Client
	model       string
	temperature float32
	logger      *logger_i.Logger
}

// NewClient builds the OpenAI chat backend.
func NewClient(settings config.Settings) llm.Provider {
	opts := []option.RequestOption{option.WithAPIKey(settings.OpenAIAPIKey)}
	if settings.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.OpenAIBaseURL))
	}

	return &llmClient{
		openai:      openai.NewClient(opts...),
		model:       settings.OpenAIChatModel,
		temperature: settings.Temperature,
		logger:      logger_i.NewLogger("llm_openai"),
	}
}

func (c *llmClient) Generate(ctx context.Context, prompt string, history []string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if len(history) > 0 {
		messages = append(messages, openai.SystemMessage(
			"Previous conversation turns, oldest first:\n"+strings.Join(history, "\n")))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(float64(c.temperature)),
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ragErrors.ProviderError{Provider: "openai", Op: "chat", Err: errors.New("empty completion")}
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return &ragErrors.RateLimitError{RetryAfter: config.DefaultRetryAfter, Err: err}
	}
	return &ragErrors.ProviderError{Provider: "openai", Op: "chat", Err: err}
}
