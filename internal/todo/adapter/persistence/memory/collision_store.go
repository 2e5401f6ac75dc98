package memory

import (
	"context"
	"strconv"
	"sync"

	"todo-mbaas/internal/todo/domain/repository"
)

// CollisionStore is a bounded in-memory collision log. The oldest entries
// are dropped once maxLen is exceeded.
type CollisionStore struct {
	mu      sync.Mutex
	entries []repository.Collision
	seq     int64
	maxLen  int
}

var _ repository.CollisionStore = (*CollisionStore)(nil)

// NewCollisionStore creates a log holding at most maxLen entries. A
// non-positive maxLen keeps everything.
func NewCollisionStore(maxLen int) *CollisionStore {
	return &CollisionStore{maxLen: maxLen}
}

func (s *CollisionStore) Append(_ context.Context, c repository.Collision) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	c.ID = strconv.FormatInt(s.seq, 10)
	s.entries = append(s.entries, c)
	if s.maxLen > 0 && len(s.entries) > s.maxLen {
		s.entries = s.entries[len(s.entries)-s.maxLen:]
	}
	return c.ID, nil
}

func (s *CollisionStore) List(context.Context) ([]repository.Collision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.Collision, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
