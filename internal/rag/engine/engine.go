package engine

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/internal/metrics"
	"github.com/akolanti/RAGChat/internal/rag/llm"
	"github.com/akolanti/RAGChat/internal/rag/vectorDB"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

// Engine answers one query end to end: retrieve, prompt, generate, parse.
// Each call is at-most-once - no step is retried.
type Engine struct {
	index  vectorDB.Index
	llm    llm.Provider
	topK   int
	logger *logger_i.Logger
}

func NewEngine(index vectorDB.Index, provider llm.Provider) *Engine {
	return &Engine{
		index:  index,
		llm:    provider,
		topK:   config.SearchTopK,
		logger: logger_i.NewLogger("Query Engine"),
	}
}

// Answer runs the retrieval chain against the named index. history is the
// caller's sliding conversation window. A model reply that violates the
// two-section output contract degrades to the sentinel QueryResult, never to
// an error - the user always gets a well-formed payload.
func (e *Engine) Answer(ctx context.Context, query string, history []string, indexName string) (docModel.QueryResult, error) {
	log := e.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("Answer", "step", docModel.StepReceived)

	// Retrieval
	log.Debug("Answer", "step", docModel.StepRetrieving)
	start := time.Now()
	chunks, err := e.index.Search(ctx, query, indexName, docModel.SearchHybrid, e.topK)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		return docModel.QueryResult{}, err
	}
	log.Debug("Documents retrieved", "count", len(chunks))

	// Prompt assembly - retrieved content joined in ranking order
	log.Debug("Answer", "step", docModel.StepPrompting)
	contents := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, chunk.Content)
	}
	prompt := buildPrompt(query, strings.Join(contents, " "))

	// Generation
	log.Debug("Answer", "step", docModel.StepGenerating)
	start = time.Now()
	raw, err := e.llm.Generate(ctx, prompt, history)
	metrics.CaptureExecutionMetrics("llm_generation", time.Since(start))
	if err != nil {
		return docModel.QueryResult{}, err
	}

	// Parsing
	log.Debug("Answer", "step", docModel.StepParsing)
	result, ok := parseResponse(raw)
	if !ok {
		log.Warn("Degrading to sentinel answer", "step", docModel.StepParseFailed, "error", &ragErrors.ParseError{Raw: raw})
		return result, nil
	}

	log.Debug("Answer", "step", docModel.StepAnswered)
	return result, nil
}
