package persistence

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/todo/domain/repository"
)

// CollisionStream is the stream key holding ToDo sync collisions.
const CollisionStream = "sync:toDo:collisions"

// RedisCollisionStore implements repository.CollisionStore on a Redis Stream.
// Every entry carries uid, hash, timestamp and the JSON encoded pre and post
// records.
type RedisCollisionStore struct {
	client    *redis.Client
	stream    string
	maxLength int64
	logger    logger.Logger
}

var _ repository.CollisionStore = (*RedisCollisionStore)(nil)

// NewRedisCollisionStore creates a collision log trimmed to roughly maxLength
// entries. A non-positive maxLength disables trimming.
func NewRedisCollisionStore(client *redis.Client, maxLength int64, log logger.Logger) *RedisCollisionStore {
	return &RedisCollisionStore{
		client:    client,
		stream:    CollisionStream,
		maxLength: maxLength,
		logger:    log.WithComponent("redis_collision_store"),
	}
}

// Append adds c to the stream and returns the stream entry id.
func (r *RedisCollisionStore) Append(ctx context.Context, c repository.Collision) (string, error) {
	pre, err := json.Marshal(c.Pre)
	if err != nil {
		return "", apperrors.NewInvalidArgumentError("collision pre record is not serializable").WithCause(err)
	}
	post, err := json.Marshal(c.Post)
	if err != nil {
		return "", apperrors.NewInvalidArgumentError("collision post record is not serializable").WithCause(err)
	}

	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"uid":       c.UID,
			"hash":      c.Hash,
			"timestamp": c.Timestamp,
			"pre":       string(pre),
			"post":      string(post),
		},
	}
	if r.maxLength > 0 {
		args.MaxLen = r.maxLength
		args.Approx = true
	}

	id, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		r.logger.WithContext(ctx).Errorf("failed to append collision for %s: %v", c.UID, err)
		return "", apperrors.NewStoreError("failed to record collision").WithCause(err)
	}
	r.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"uid":      c.UID,
		"entry_id": id,
	}).Debug("collision recorded")
	return id, nil
}

// List returns every entry of the stream, oldest first.
func (r *RedisCollisionStore) List(ctx context.Context) ([]repository.Collision, error) {
	msgs, err := r.client.XRange(ctx, r.stream, "-", "+").Result()
	if err != nil {
		return nil, apperrors.NewStoreError("failed to read collisions").WithCause(err)
	}

	out := make([]repository.Collision, 0, len(msgs))
	for _, msg := range msgs {
		c, err := parseCollision(msg)
		if err != nil {
			r.logger.WithContext(ctx).Warnf("skipping malformed collision %s: %v", msg.ID, err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func parseCollision(msg redis.XMessage) (repository.Collision, error) {
	c := repository.Collision{
		ID:        msg.ID,
		UID:       stringValue(msg.Values, "uid"),
		Hash:      stringValue(msg.Values, "hash"),
		Timestamp: stringValue(msg.Values, "timestamp"),
	}
	if raw := stringValue(msg.Values, "pre"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.Pre); err != nil {
			return c, fmt.Errorf("decode pre: %w", err)
		}
	}
	if raw := stringValue(msg.Values, "post"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.Post); err != nil {
			return c, fmt.Errorf("decode post: %w", err)
		}
	}
	return c, nil
}

func stringValue(values map[string]interface{}, key string) string {
	s, _ := values[key].(string)
	return s
}
