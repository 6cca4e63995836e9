package redisStore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akolanti/RAGChat/internal/config"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

// Store is a thin wrapper around one logical redis database.
type Store struct {
	client *redis.Client
	logger *logger_i.Logger
}

// NewStore connects and pings; a nil return means redis is offline and the
// caller should fall back to its in-memory store.
func NewStore(ctx context.Context, settings config.Settings, dbType int) *Store {
	logger := logger_i.NewLogger("Redis Store")

	client := redis.NewClient(&redis.Options{
		Addr:                  settings.RedisAddr,
		Password:              settings.RedisPassword,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline: ", "error", err.Error())
		return nil
	}

	logger.Info("Redis store init successfully", "db", dbType)

	store := &Store{
		client: client,
		logger: logger,
	}
	go store.closeOnDone(ctx)
	return store
}

func (s *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	s.logger.Info("Closing Redis store")
	if err := s.client.Close(); err != nil {
		s.logger.Error("Error closing redis client", "error", err)
	}
}

// NewTestStore wires an externally provided client; only for tests.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("test redis"),
	}
}
