package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/RAGChat/internal/api"
	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/handlers"
	"github.com/akolanti/RAGChat/internal/rag/engine"
	"github.com/akolanti/RAGChat/internal/session"
)

type mockIndex struct {
	searchErr error
}

func (m *mockIndex) CreateIndex(ctx context.Context, name string) error { return nil }
func (m *mockIndex) DeleteIndex(ctx context.Context, name string) error { return nil }
func (m *mockIndex) Upsert(ctx context.Context, name string, chunks []docModel.Chunk) ([]string, error) {
	return nil, nil
}
func (m *mockIndex) Search(ctx context.Context, query string, name string, mode docModel.SearchMode, k int) ([]docModel.Chunk, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return []docModel.Chunk{{Content: "Sector X employs 42 people."}}, nil
}

type mockLLM struct {
	reply string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, history []string) (string, error) {
	return m.reply, nil
}

func setup(t *testing.T, index *mockIndex, provider *mockLLM) *session.Manager {
	t.Helper()
	sessions := session.NewManager(session.NewInMemorySessionStore(), time.Minute)
	handlers.Init(engine.NewEngine(index, provider), sessions, "hr-docs")
	return sessions
}

func asUser(req *http.Request, userId string) *http.Request {
	ctx := context.WithValue(req.Context(), config.USER_ID_KEY, userId)
	return req.WithContext(ctx)
}

func postQuery(t *testing.T, body string, userId string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewBufferString(body))
	if userId != "" {
		req = asUser(req, userId)
	}
	rec := httptest.NewRecorder()
	handlers.QueryHandler(rec, req)
	return rec
}

func TestQueryHandler_DeadContextAnswersServiceUnavailable(t *testing.T) {
	setup(t, &mockIndex{}, &mockLLM{reply: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewBufferString(`{"query":"hi"}`))
	req = asUser(req, "gil")
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handlers.QueryHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var payload api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("body is not an error payload: %v", err)
	}
	if payload.Error == "" {
		t.Error("error payload missing a message")
	}
}

func TestHealthHandler(t *testing.T) {
	setup(t, &mockIndex{}, &mockLLM{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handlers.HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestQueryHandler_Success(t *testing.T) {
	setup(t, &mockIndex{}, &mockLLM{reply: "###THOUGHT### headcount is in the context ###RESPONSE### 42"})

	rec := postQuery(t, `{"query":"how many people work in sector X?"}`, "ana")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var res api.QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Response != "42" {
		t.Errorf("response = %q, want 42", res.Response)
	}
	if res.Thought != "headcount is in the context" {
		t.Errorf("thought = %q", res.Thought)
	}
}

func TestQueryHandler_BadRequests(t *testing.T) {
	setup(t, &mockIndex{}, &mockLLM{reply: "###THOUGHT### t ###RESPONSE### a"})

	tests := []struct {
		name   string
		body   string
		userId string
	}{
		{"Empty_Body", "", "ana"},
		{"Not_JSON", "query=hi", "ana"},
		{"Missing_Query_Field", `{"other":"x"}`, "ana"},
		{"Empty_Query", `{"query":""}`, "ana"},
		{"No_User_Identity", `{"query":"hi"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postQuery(t, tt.body, tt.userId)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var res api.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatal(err)
			}
			if res.Error == "" {
				t.Error("error payload is empty")
			}
		})
	}
}

func TestQueryHandler_InternalError(t *testing.T) {
	setup(t, &mockIndex{searchErr: errors.New("index offline")}, &mockLLM{})

	rec := postQuery(t, `{"query":"hi"}`, "ana")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var res api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Error == "" {
		t.Error("error payload is empty")
	}
}

func TestQueryHandler_MalformedModelOutputStillAnswers(t *testing.T) {
	setup(t, &mockIndex{}, &mockLLM{reply: "no markers at all"})

	rec := postQuery(t, `{"query":"hi"}`, "ana")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res api.QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Response == "" || res.Thought == "" {
		t.Errorf("sentinel payload expected, got %+v", res)
	}
}

func TestQueryHandler_RemembersConversation(t *testing.T) {
	setup(t, &mockIndex{}, &mockLLM{reply: "###THOUGHT### t ###RESPONSE### first answer"})

	if rec := postQuery(t, `{"query":"first question"}`, "bo"); rec.Code != http.StatusOK {
		t.Fatalf("first query failed: %d", rec.Code)
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/conversation", nil), "bo")
	rec := httptest.NewRecorder()
	handlers.ConversationHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res api.ConversationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.User) != 1 || res.User[0] != "first question" {
		t.Errorf("user transcript = %v", res.User)
	}
	if len(res.AI) != 1 || res.AI[0] != "first answer" {
		t.Errorf("ai transcript = %v", res.AI)
	}
}

func TestLogoutHandler_ClearsSession(t *testing.T) {
	setup(t, &mockIndex{}, &mockLLM{reply: "###THOUGHT### t ###RESPONSE### a"})

	if rec := postQuery(t, `{"query":"remember me"}`, "cy"); rec.Code != http.StatusOK {
		t.Fatalf("query failed: %d", rec.Code)
	}

	req := asUser(httptest.NewRequest(http.MethodPost, "/logout", nil), "cy")
	rec := httptest.NewRecorder()
	handlers.LogoutHandler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", rec.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodGet, "/conversation", nil), "cy")
	rec = httptest.NewRecorder()
	handlers.ConversationHandler(rec, req)

	var res api.ConversationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.User) != 0 {
		t.Errorf("transcript survived logout: %v", res.User)
	}
}
