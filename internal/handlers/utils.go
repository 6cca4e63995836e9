package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/RAGChat/internal/adapter"
	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/rag/engine"
	"github.com/akolanti/RAGChat/internal/session"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

var logRH *logger_i.Logger

var (
	queryEngine *engine.Engine
	sessions    *session.Manager
	indexName   string
)

// Init wires the handler package to its collaborators. Must run before the
// server starts routing.
func Init(e *engine.Engine, m *session.Manager, index string) {
	logRH = logger_i.NewLogger("Handlers")
	queryEngine = e
	sessions = m
	indexName = index
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(message))
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

// requestUserId pulls the identity the middleware placed on the context.
func requestUserId(ctx context.Context) string {
	userId, _ := ctx.Value(config.USER_ID_KEY).(string)
	return userId
}
