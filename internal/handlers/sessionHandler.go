package handlers

import (
	"net/http"

	"github.com/akolanti/RAGChat/internal/adapter"
)

// ConversationHandler godoc
// @Summary      Export the caller's conversation transcript
// @Description  Returns every user message and assistant reply recorded for the current session.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  api.ConversationResponse  "Full ordered transcript"
// @Failure      400  {object}  api.ErrorResponse         "Missing user identity"
// @Failure      500  {object}  api.ErrorResponse         "Session store unavailable"
// @Router       /conversation [get]
func ConversationHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remoteAddr", r.RemoteAddr)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "request context no longer valid")
		return
	}

	userId := requestUserId(r.Context())
	if userId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "user identity is required")
		return
	}

	state, release, err := sessions.Acquire(r.Context(), userId)
	if err != nil {
		logRH.Error("Session acquisition failed", "userId", userId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer release()

	writeJsonResponse(w, http.StatusOK, adapter.ToConversationResponse(*state))
}

// LogoutHandler godoc
// @Summary      End the caller's session
// @Description  Drops the conversation state so the next request starts fresh.
// @Tags         Session
// @Produce      json
// @Success      200  {string}  string             "OK"
// @Failure      400  {object}  api.ErrorResponse  "Missing user identity"
// @Failure      500  {object}  api.ErrorResponse  "Session store unavailable"
// @Router       /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remoteAddr", r.RemoteAddr)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "request context no longer valid")
		return
	}

	userId := requestUserId(r.Context())
	if userId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "user identity is required")
		return
	}

	if err := sessions.Destroy(r.Context(), userId); err != nil {
		logRH.Error("Session destroy failed", "userId", userId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logRH.Error("Couldn't write logout response", "error", err)
	}
}
