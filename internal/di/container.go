package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"todo-mbaas/internal/config"
	"todo-mbaas/internal/session"
	"todo-mbaas/internal/shared/eventbus"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/todo"
	redispersistence "todo-mbaas/internal/todo/adapter/persistence"
	"todo-mbaas/internal/todo/adapter/persistence/memory"
	mongodbpersistence "todo-mbaas/internal/todo/adapter/persistence/mongodb"
	"todo-mbaas/internal/todo/domain/repository"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Container owns the backends and modules of the process and closes them in
// reverse order of construction.
type Container struct {
	mu sync.RWMutex
	// Module instances
	SessionModule *session.SessionModule
	ToDoModule    *todo.ToDoModule
	// Connections
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	EventBus    *eventbus.EventBus

	Config *config.AppConfig
	Logger logger.Logger
}

// NewContainer creates an empty container for cfg.
func NewContainer(cfg *config.AppConfig, log logger.Logger) *Container {
	if log == nil {
		log = logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	}
	return &Container{Config: cfg, Logger: log}
}

// Initialize connects the configured backends and builds the session and
// ToDo modules.
func (c *Container) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.needsRedis() {
		c.RedisClient = config.NewRedisClient(&c.Config.Redis)
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis at %s: %w", c.Config.Redis.GetAddr(), err)
		}
		c.Logger.Infof("Redis connection established at %s", c.Config.Redis.GetAddr())
	}

	store, err := c.documentStore(ctx)
	if err != nil {
		return err
	}

	var collisions repository.CollisionStore
	if c.RedisClient != nil {
		collisions = redispersistence.NewRedisCollisionStore(c.RedisClient, c.Config.Redis.StreamMaxLength, c.Logger)
	} else {
		collisions = memory.NewCollisionStore(int(c.Config.Redis.StreamMaxLength))
	}

	sessionModule, err := session.NewSessionModule(&c.Config.Session, c.RedisClient, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create session module: %w", err)
	}
	c.SessionModule = sessionModule

	c.EventBus = eventbus.NewEventBus(c.Logger)
	todoModule, err := todo.NewToDoModule(c.Config, todo.Dependencies{
		Store:       store,
		Collisions:  collisions,
		Sessions:    sessionModule.Manager(),
		SessionPing: sessionModule.HealthCheck,
		Bus:         c.EventBus,
	}, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create ToDo module: %w", err)
	}
	c.ToDoModule = todoModule
	return nil
}

// needsRedis reports whether any component is configured to use Redis.
// The collision log follows the session store.
func (c *Container) needsRedis() bool {
	return c.Config.Session.Store == config.StoreRedis
}

func (c *Container) documentStore(ctx context.Context) (repository.DocumentStore, error) {
	if c.Config.Mongo.Store == config.StoreMemory {
		c.Logger.Warn("Using in-memory document store, data is lost on restart")
		return memory.NewDocumentStore(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(c.Config.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	c.MongoClient = client
	c.MongoDB = client.Database(c.Config.Mongo.DatabaseName)
	c.Logger.Infof("MongoDB connection established, database %s", c.Config.Mongo.DatabaseName)
	return mongodbpersistence.NewDocumentStore(c.MongoDB, c.Logger), nil
}

// GetToDoModule returns the ToDo module instance
func (c *Container) GetToDoModule() *todo.ToDoModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ToDoModule
}

// HealthCheck checks the session store and the document store.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ToDoModule == nil {
		return errors.New("container not initialized")
	}
	return c.ToDoModule.HealthCheck(ctx)
}

// Cleanup releases modules and connections in reverse order of creation.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	c.ToDoModule = nil
	if c.SessionModule != nil {
		if err := c.SessionModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop session module: %w", err))
		}
		c.SessionModule = nil
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis client: %w", err))
		}
		c.RedisClient = nil
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}

	return errors.Join(errs...)
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("cleanup errors occurred: %v", err)
		return err
	}
	c.Logger.Info("DI container resources closed")
	return nil
}
