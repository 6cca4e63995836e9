package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/internal/metrics"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

// Messages keeps the full ordered transcript of one conversation.
type Messages struct {
	User []string `json:"user"`
	AI   []string `json:"ai"`
}

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ConversationState is owned exclusively by one session. It is created at
// the first authenticated request for an unseen user id and destroyed at
// logout or TTL expiry.
type ConversationState struct {
	UserId   string   `json:"user_id"`
	History  []Turn   `json:"history"` //bounded sliding window, most recent last
	Messages Messages `json:"messages"`
}

// AppendTurn records a finished exchange in both the transcript and the
// sliding window, trimming the window to the configured size.
func (s *ConversationState) AppendTurn(question string, answer string, window int) {
	s.Messages.User = append(s.Messages.User, question)
	s.Messages.AI = append(s.Messages.AI, answer)

	s.History = append(s.History, Turn{Question: question, Answer: answer})
	if window >= 0 && len(s.History) > window {
		s.History = s.History[len(s.History)-window:]
	}
}

// Window renders the sliding window for the chat model, oldest turn first.
func (s *ConversationState) Window() []string {
	rendered := make([]string, 0, len(s.History))
	for _, turn := range s.History {
		rendered = append(rendered, fmt.Sprintf("User: %s\nAssistant: %s", turn.Question, turn.Answer))
	}
	return rendered
}

// Store persists conversation state with a TTL.
type Store interface {
	Load(ctx context.Context, userId string) (ConversationState, bool, error)
	Save(ctx context.Context, state ConversationState, ttl time.Duration) error
	Delete(ctx context.Context, userId string) error
}

// Manager owns session lifecycle and serializes requests per session: two
// concurrent requests for the same user id never mutate the same
// ConversationState at once.
type Manager struct {
	store  Store
	ttl    time.Duration
	window int

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	logger *logger_i.Logger
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		window: config.HistoryWindow,
		locks:  make(map[string]*sync.Mutex),
		logger: logger_i.NewLogger("SessionManager"),
	}
}

func (m *Manager) sessionLock(userId string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[userId]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userId] = lock
	}
	return lock
}

// Acquire loads the user's state, creating it on first login, and holds the
// per-session lock until release is called.
func (m *Manager) Acquire(ctx context.Context, userId string) (*ConversationState, func(), error) {
	lock := m.sessionLock(userId)
	lock.Lock()
	release := lock.Unlock

	state, found, err := m.store.Load(ctx, userId)
	if err != nil {
		release()
		return nil, nil, err
	}
	if !found {
		m.logger.Info("Creating new conversation", "userId", userId)
		state = ConversationState{UserId: userId}
		if err := m.store.Save(ctx, state, m.ttl); err != nil {
			release()
			return nil, nil, err
		}
		metrics.IncrementActiveSessions()
	}
	return &state, release, nil
}

// Commit persists the state and refreshes its TTL. The caller must still
// hold the lock handed out by Acquire.
func (m *Manager) Commit(ctx context.Context, state *ConversationState) error {
	return m.store.Save(ctx, *state, m.ttl)
}

// Destroy drops the conversation entirely (logout path). The keyed mutex
// stays in the map so a concurrent Acquire for the same user keeps
// serializing against us.
func (m *Manager) Destroy(ctx context.Context, userId string) error {
	lock := m.sessionLock(userId)
	lock.Lock()
	defer lock.Unlock()

	_, found, err := m.store.Load(ctx, userId)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	if err := m.store.Delete(ctx, userId); err != nil {
		return err
	}

	metrics.DecrementActiveSessions()
	m.logger.Info("Destroyed conversation", "userId", userId)
	return nil
}

// WindowSize reports how many turns are handed to the chat model.
func (m *Manager) WindowSize() int {
	return m.window
}
