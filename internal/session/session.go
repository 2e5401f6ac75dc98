package session

import (
	"context"
	"errors"

	"todo-mbaas/internal/config"
	"todo-mbaas/internal/session/adapter/persistence/memory"
	redisstore "todo-mbaas/internal/session/adapter/persistence/redis"
	"todo-mbaas/internal/session/domain/repository"
	"todo-mbaas/internal/session/usecase"
	"todo-mbaas/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// SessionModule bundles the session store and the session manager.
type SessionModule struct {
	store   repository.SessionStore
	manager *usecase.Manager
	memory  *memory.SessionStore
}

// NewSessionModule builds the store selected by cfg.Store. redisClient is
// required for the redis store and ignored otherwise.
func NewSessionModule(cfg *config.SessionConfig, redisClient *redis.Client, log logger.Logger) (*SessionModule, error) {
	module := &SessionModule{}

	switch cfg.Store {
	case config.StoreRedis:
		if redisClient == nil {
			return nil, errors.New("redis session store selected but no redis client configured")
		}
		module.store = redisstore.NewSessionStore(redisClient, cfg.KeyPrefix, log)
	case config.StoreMemory:
		module.memory = memory.NewSessionStore()
		module.store = module.memory
	default:
		return nil, errors.New("unknown session store: " + cfg.Store)
	}

	module.manager = usecase.NewSessionManager(module.store, cfg.Timeout, log)
	return module, nil
}

// Manager returns the session manager.
func (m *SessionModule) Manager() usecase.SessionManager {
	return m.manager
}

// HealthCheck pings the underlying store.
func (m *SessionModule) HealthCheck(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// Stop releases in-process resources. The redis client is owned by the caller.
func (m *SessionModule) Stop() error {
	if m.memory != nil {
		return m.memory.Close()
	}
	return nil
}
