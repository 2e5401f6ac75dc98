// Package mongodb stores ToDo application records in MongoDB. Each
// collection name maps onto a MongoDB collection and each record is stored
// as {_id: guid, <fields>...}.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/todo/domain/repository"
)

const idField = "_id"

// DocumentStore implements repository.DocumentStore on a MongoDB database.
type DocumentStore struct {
	db     *mongo.Database
	newID  func() string
	logger logger.Logger
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a document store over db.
func NewDocumentStore(db *mongo.Database, log logger.Logger) *DocumentStore {
	return &DocumentStore{
		db:     db,
		newID:  uuid.NewString,
		logger: log.WithComponent("mongodb_document_store"),
	}
}

func (s *DocumentStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (*repository.Record, error) {
	guid := s.newID()
	if _, err := s.db.Collection(collection).InsertOne(ctx, toDocument(guid, fields)); err != nil {
		s.logger.WithContext(ctx).Errorf("insert into %s failed: %v", collection, err)
		return nil, storeError(fmt.Sprintf("failed to create record in %s", collection), err)
	}
	return &repository.Record{GUID: guid, Type: collection, Fields: fields}, nil
}

func (s *DocumentStore) CreateMany(ctx context.Context, collection string, entries []map[string]interface{}) ([]repository.Record, error) {
	if len(entries) == 0 {
		return []repository.Record{}, nil
	}
	docs := make([]interface{}, 0, len(entries))
	records := make([]repository.Record, 0, len(entries))
	for _, fields := range entries {
		guid := s.newID()
		docs = append(docs, toDocument(guid, fields))
		records = append(records, repository.Record{GUID: guid, Type: collection, Fields: fields})
	}
	if _, err := s.db.Collection(collection).InsertMany(ctx, docs); err != nil {
		s.logger.WithContext(ctx).Errorf("bulk insert into %s failed: %v", collection, err)
		return nil, storeError(fmt.Sprintf("failed to create records in %s", collection), err)
	}
	return records, nil
}

func (s *DocumentStore) Read(ctx context.Context, collection, guid string) (*repository.Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{idField: guid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(collection, guid)
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to read record %s from %s", guid, collection), err)
	}
	return toRecord(collection, doc), nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, guid string, fields map[string]interface{}) (*repository.Record, error) {
	res, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{idField: guid}, toDocument(guid, fields))
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to update record %s in %s", guid, collection), err)
	}
	if res.MatchedCount == 0 {
		return nil, notFound(collection, guid)
	}
	return &repository.Record{GUID: guid, Type: collection, Fields: fields}, nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, guid string) (*repository.Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOneAndDelete(ctx, bson.M{idField: guid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(collection, guid)
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to delete record %s from %s", guid, collection), err)
	}
	return toRecord(collection, doc), nil
}

func (s *DocumentStore) List(ctx context.Context, collection string, query repository.ListQuery) (*repository.ListResult, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, buildFilter(query), options.Find().SetSort(bson.D{{Key: idField, Value: 1}}))
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to list %s", collection), err)
	}
	defer cursor.Close(ctx)

	result := &repository.ListResult{List: []repository.Record{}}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeError(fmt.Sprintf("failed to decode %s record", collection), err)
		}
		result.List = append(result.List, *toRecord(collection, doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, storeError(fmt.Sprintf("failed to list %s", collection), err)
	}
	result.Count = len(result.List)
	return result, nil
}

func (s *DocumentStore) DeleteAll(ctx context.Context, collection string) (int64, error) {
	res, err := s.db.Collection(collection).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, storeError(fmt.Sprintf("failed to clear %s", collection), err)
	}
	s.logger.WithContext(ctx).Infof("cleared %d records from %s", res.DeletedCount, collection)
	return res.DeletedCount, nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// buildFilter turns a ListQuery into a MongoDB filter. Conditions are
// combined with $and so that Eq and Ne may name the same path.
func buildFilter(query repository.ListQuery) bson.M {
	conds := make([]bson.M, 0, len(query.Eq)+len(query.Ne))
	for path, v := range query.Eq {
		conds = append(conds, bson.M{path: v})
	}
	for path, v := range query.Ne {
		conds = append(conds, bson.M{path: bson.M{"$ne": v}})
	}
	if len(conds) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": conds}
}

func toDocument(guid string, fields map[string]interface{}) bson.M {
	doc := make(bson.M, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	doc[idField] = guid
	return doc
}

func toRecord(collection string, doc bson.M) *repository.Record {
	guid, _ := doc[idField].(string)
	fields := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == idField {
			continue
		}
		fields[k] = normalize(v)
	}
	return &repository.Record{GUID: guid, Type: collection, Fields: fields}
}

// normalize converts driver types into plain JSON-shaped values so callers
// can walk them with map[string]interface{} assertions.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.M:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	case primitive.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}

func notFound(collection, guid string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("record %s not found in %s", guid, collection)).
		WithCause(apperrors.ErrRecordNotFound)
}

func storeError(message string, cause error) error {
	return apperrors.NewStoreError(message).WithCause(cause)
}
