package repository

import (
	"context"
)

// Record is a stored document: its GUID, the collection it belongs to and
// its schemaless fields.
type Record struct {
	GUID   string                 `json:"guid"`
	Type   string                 `json:"type"`
	Fields map[string]interface{} `json:"fields"`
}

// ListQuery filters a collection. Keys are dotted field paths. A record
// matches when every Eq path equals its value and every Ne path differs.
type ListQuery struct {
	Eq map[string]interface{}
	Ne map[string]interface{}
}

// ListResult is the outcome of a List call.
type ListResult struct {
	Count int
	List  []Record
}

// DocumentStore persists schemaless records grouped by collection.
type DocumentStore interface {
	Create(ctx context.Context, collection string, fields map[string]interface{}) (*Record, error)
	// CreateMany returns the stored records in input order.
	CreateMany(ctx context.Context, collection string, entries []map[string]interface{}) ([]Record, error)
	// Read returns a not-found error when guid is absent.
	Read(ctx context.Context, collection, guid string) (*Record, error)
	// Update replaces the fields of an existing record.
	Update(ctx context.Context, collection, guid string, fields map[string]interface{}) (*Record, error)
	// Delete removes a record and returns its last state.
	Delete(ctx context.Context, collection, guid string) (*Record, error)
	List(ctx context.Context, collection string, query ListQuery) (*ListResult, error)
	// DeleteAll empties a collection and returns the number of removed records.
	DeleteAll(ctx context.Context, collection string) (int64, error)
	Ping(ctx context.Context) error
}
