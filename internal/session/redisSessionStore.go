package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/akolanti/RAGChat/internal/data/redisStore"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore persists conversation state in redis; the TTL handed to
// Save doubles as the session expiry.
type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) Load(ctx context.Context, userId string) (ConversationState, bool, error) {
	var state ConversationState

	val, err := s.store.Get(ctx, sessionKeyPrefix+userId)
	if s.store.IsNil(err) {
		return state, false, nil
	} else if err != nil {
		return state, false, err
	}

	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return state, false, err
	}
	return state, true, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, state ConversationState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, sessionKeyPrefix+state.UserId, data, ttl)
}

func (s *RedisSessionStore) Delete(ctx context.Context, userId string) error {
	return s.store.Del(ctx, sessionKeyPrefix+userId)
}
