package repository

import (
	"context"
)

// Collision is a client edit that conflicted with the server copy of the
// same record during sync.
type Collision struct {
	ID        string                 `json:"id,omitempty"`
	UID       string                 `json:"uid"`
	Hash      string                 `json:"hash"`
	Timestamp string                 `json:"timestamp"`
	Pre       map[string]interface{} `json:"pre,omitempty"`
	Post      map[string]interface{} `json:"post,omitempty"`
}

// CollisionStore keeps the sync collision log.
type CollisionStore interface {
	// Append records c and returns the id assigned to it.
	Append(ctx context.Context, c Collision) (string, error)
	// List returns the log oldest first.
	List(ctx context.Context) ([]Collision, error)
}
