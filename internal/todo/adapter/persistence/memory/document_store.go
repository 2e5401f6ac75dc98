// Package memory provides in-process implementations of the ToDo storage
// ports, used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/jsonpath"
	"todo-mbaas/internal/todo/domain/repository"
)

type collection struct {
	records map[string]map[string]interface{}
	order   []string
}

// DocumentStore keeps records in memory. Fields are deep copied through JSON
// on the way in and out, so numbers come back as float64 just as they would
// from a decoded request.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
	newID       func() string
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]*collection),
		newID:       uuid.NewString,
	}
}

func (s *DocumentStore) Create(_ context.Context, name string, fields map[string]interface{}) (*repository.Record, error) {
	stored, err := clone(fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	guid := s.insert(name, stored)
	return s.record(name, guid)
}

func (s *DocumentStore) CreateMany(_ context.Context, name string, entries []map[string]interface{}) ([]repository.Record, error) {
	copies := make([]map[string]interface{}, 0, len(entries))
	for _, fields := range entries {
		stored, err := clone(fields)
		if err != nil {
			return nil, err
		}
		copies = append(copies, stored)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]repository.Record, 0, len(copies))
	for _, stored := range copies {
		rec, err := s.record(name, s.insert(name, stored))
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (s *DocumentStore) Read(_ context.Context, name, guid string) (*repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record(name, guid)
}

func (s *DocumentStore) Update(_ context.Context, name, guid string, fields map[string]interface{}) (*repository.Record, error) {
	stored, err := clone(fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collections[name]
	if c == nil || c.records[guid] == nil {
		return nil, notFound(name, guid)
	}
	c.records[guid] = stored
	return s.record(name, guid)
}

func (s *DocumentStore) Delete(_ context.Context, name, guid string) (*repository.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.record(name, guid)
	if err != nil {
		return nil, err
	}
	c := s.collections[name]
	delete(c.records, guid)
	for i, id := range c.order {
		if id == guid {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return rec, nil
}

func (s *DocumentStore) List(_ context.Context, name string, query repository.ListQuery) (*repository.ListResult, error) {
	eq, err := normalizeQuery(query.Eq)
	if err != nil {
		return nil, err
	}
	ne, err := normalizeQuery(query.Ne)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	result := &repository.ListResult{List: []repository.Record{}}
	c := s.collections[name]
	if c == nil {
		return result, nil
	}
	for _, guid := range c.order {
		if !matches(c.records[guid], eq, ne) {
			continue
		}
		rec, err := s.record(name, guid)
		if err != nil {
			return nil, err
		}
		result.List = append(result.List, *rec)
	}
	result.Count = len(result.List)
	return result, nil
}

func (s *DocumentStore) DeleteAll(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collections[name]
	if c == nil {
		return 0, nil
	}
	n := int64(len(c.records))
	delete(s.collections, name)
	return n, nil
}

func (s *DocumentStore) Ping(context.Context) error {
	return nil
}

// insert must be called with the write lock held.
func (s *DocumentStore) insert(name string, fields map[string]interface{}) string {
	c := s.collections[name]
	if c == nil {
		c = &collection{records: make(map[string]map[string]interface{})}
		s.collections[name] = c
	}
	guid := s.newID()
	c.records[guid] = fields
	c.order = append(c.order, guid)
	return guid
}

// record must be called with the lock held.
func (s *DocumentStore) record(name, guid string) (*repository.Record, error) {
	c := s.collections[name]
	if c == nil || c.records[guid] == nil {
		return nil, notFound(name, guid)
	}
	fields, err := clone(c.records[guid])
	if err != nil {
		return nil, err
	}
	return &repository.Record{GUID: guid, Type: name, Fields: fields}, nil
}

func matches(fields map[string]interface{}, eq, ne map[string]interface{}) bool {
	for path, want := range eq {
		if !reflect.DeepEqual(jsonpath.GetPath(fields, path), want) {
			return false
		}
	}
	for path, unwanted := range ne {
		if reflect.DeepEqual(jsonpath.GetPath(fields, path), unwanted) {
			return false
		}
	}
	return true
}

func normalizeQuery(q map[string]interface{}) (map[string]interface{}, error) {
	if len(q) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("invalid list query").WithCause(err)
	}
	out := make(map[string]interface{}, len(q))
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.NewInvalidArgumentError("invalid list query").WithCause(err)
	}
	return out, nil
}

func clone(fields map[string]interface{}) (map[string]interface{}, error) {
	if fields == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("record fields are not serializable").WithCause(err)
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.NewInvalidArgumentError("record fields are not serializable").WithCause(err)
	}
	return out, nil
}

func notFound(name, guid string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("record %s not found in %s", guid, name)).
		WithCause(apperrors.ErrRecordNotFound)
}
