package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/akolanti/RAGChat/internal/adapter"
	"github.com/akolanti/RAGChat/internal/api"
	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/metrics"
)

// HealthHandler godoc
// @Summary      Liveness probe
// @Description  Returns the literal body "OK" when the process is up.
// @Tags         Operations
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logRH.Error("Couldn't write health response", "error", err)
	}
}

// QueryHandler godoc
// @Summary      Answer a question against the indexed documents
// @Description  Runs retrieval and generation for one question within the caller's conversation session.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest   true  "The question to answer"
// @Success      200      {object}  api.QueryResponse  "Parsed answer and model reasoning"
// @Failure      400      {object}  api.ErrorResponse  "Missing or empty query"
// @Failure      500      {object}  api.ErrorResponse  "Retrieval or generation failed"
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remoteAddr", r.RemoteAddr)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "request context no longer valid")
		return
	}

	var requestData api.QueryRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the Query handler reader", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Query == "" {
		logRH.Warn("Bad Query Request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "query is required")
		return
	}

	userId := requestUserId(r.Context())
	if userId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "user identity is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.QueryTimeout)
	defer cancel()

	state, release, err := sessions.Acquire(ctx, userId)
	if err != nil {
		logRH.Error("Session acquisition failed", "userId", userId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer release()

	start := time.Now()
	result, err := queryEngine.Answer(ctx, requestData.Query, state.Window(), indexName)
	if err != nil {
		metrics.CaptureQueryMetrics("error", time.Since(start))
		logRH.Error("Query failed", "userId", userId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.CaptureQueryMetrics("answered", time.Since(start))

	state.AppendTurn(requestData.Query, result.Answer, sessions.WindowSize())
	if err := sessions.Commit(ctx, state); err != nil {
		// The answer is still good, only memory of this turn is lost.
		logRH.Error("Session commit failed", "userId", userId, "error", err)
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(result))
}
