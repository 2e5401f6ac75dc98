package redis

import (
	"context"
	"errors"
	"time"

	"todo-mbaas/internal/session/domain/repository"
	"todo-mbaas/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps serialized sessions as plain Redis strings with EX
// expiry, one key per session token.
type SessionStore struct {
	client    *redis.Client
	keyPrefix string
	logger    logger.Logger
}

var _ repository.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Redis-backed session store. Keys are
// keyPrefix+sessionId.
func NewSessionStore(client *redis.Client, keyPrefix string, log logger.Logger) *SessionStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &SessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    log.WithComponent("redis_session_store"),
	}
}

func (s *SessionStore) key(id string) string {
	return s.keyPrefix + id
}

// Set writes value with SET key value EX ttl.
func (s *SessionStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		s.logger.Errorf("Failed to write session %s: %v", key, err)
		return err
	}
	return nil
}

// Get maps redis.Nil to found=false.
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Errorf("Failed to read session %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

// Remove deletes the key and reports whether it existed.
func (s *SessionStore) Remove(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		s.logger.Errorf("Failed to delete session %s: %v", key, err)
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
