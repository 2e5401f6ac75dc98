package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/todo/domain/repository"
)

func newTestStore(mt *mtest.T) *DocumentStore {
	store := NewDocumentStore(mt.DB, logger.NewNopLogger())
	n := 0
	store.newID = func() string {
		n++
		return []string{"guid-1", "guid-2", "guid-3"}[(n-1)%3]
	}
	return store
}

func TestDocumentStore_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		rec, err := store.Create(context.Background(), "toDo", map[string]interface{}{"title": "a"})

		require.NoError(t, err)
		assert.Equal(t, "guid-1", rec.GUID)
		assert.Equal(t, "toDo", rec.Type)
		assert.Equal(t, "a", rec.Fields["title"])
	})

	mt.Run("insert_error", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "insert error"}))

		_, err := store.Create(context.Background(), "toDo", map[string]interface{}{"title": "a"})

		assert.True(t, apperrors.IsStore(err))
	})
}

func TestDocumentStore_CreateMany(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		recs, err := store.CreateMany(context.Background(), "user", []map[string]interface{}{{"n": 1}, {"n": 2}})

		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "guid-1", recs[0].GUID)
		assert.Equal(t, "guid-2", recs[1].GUID)
	})

	mt.Run("empty", func(mt *mtest.T) {
		recs, err := newTestStore(mt).CreateMany(context.Background(), "user", nil)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestDocumentStore_Read(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.toDo", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "t1"},
			{Key: "title", Value: "Spengler's ToDo 1"},
			{Key: "location", Value: bson.D{{Key: "latitude", Value: 12.4235}, {Key: "count", Value: int32(3)}}},
			{Key: "tags", Value: bson.A{"a", "b"}},
		}))

		rec, err := store.Read(context.Background(), "toDo", "t1")

		require.NoError(t, err)
		assert.Equal(t, "t1", rec.GUID)
		assert.Equal(t, "Spengler's ToDo 1", rec.Fields["title"])
		loc, ok := rec.Fields["location"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 12.4235, loc["latitude"])
		assert.Equal(t, float64(3), loc["count"])
		assert.Equal(t, []interface{}{"a", "b"}, rec.Fields["tags"])
		_, hasID := rec.Fields["_id"]
		assert.False(t, hasID)
	})

	mt.Run("not_found", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.toDo", mtest.FirstBatch))

		_, err := store.Read(context.Background(), "toDo", "missing")

		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDocumentStore_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("replaced", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		rec, err := store.Update(context.Background(), "toDo", "t1", map[string]interface{}{"status": "Completed"})

		require.NoError(t, err)
		assert.Equal(t, "Completed", rec.Fields["status"])
	})

	mt.Run("no_match", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		_, err := store.Update(context.Background(), "toDo", "t1", map[string]interface{}{})

		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDocumentStore_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "t1"},
			{Key: "title", Value: "gone"},
		}}))

		rec, err := store.Delete(context.Background(), "toDo", "t1")

		require.NoError(t, err)
		assert.Equal(t, "t1", rec.GUID)
		assert.Equal(t, "gone", rec.Fields["title"])
	})

	mt.Run("missing", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := store.Delete(context.Background(), "toDo", "t1")

		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDocumentStore_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("two_batches", func(mt *mtest.T) {
		store := newTestStore(mt)
		first := mtest.CreateCursorResponse(1, "test.toDo", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "t1"}, {Key: "status", Value: "New"},
		})
		second := mtest.CreateCursorResponse(1, "test.toDo", mtest.NextBatch, bson.D{
			{Key: "_id", Value: "t2"}, {Key: "status", Value: "Rejected"},
		})
		killCursors := mtest.CreateCursorResponse(0, "test.toDo", mtest.NextBatch)
		mt.AddMockResponses(first, second, killCursors)

		res, err := store.List(context.Background(), "toDo", repository.ListQuery{
			Ne: map[string]interface{}{"status": "Completed"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Count)
		assert.Equal(t, "t1", res.List[0].GUID)
		assert.Equal(t, "t2", res.List[1].GUID)
	})

	mt.Run("find_error", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "find error"}))

		_, err := store.List(context.Background(), "toDo", repository.ListQuery{})

		assert.True(t, apperrors.IsStore(err))
	})
}

func TestDocumentStore_DeleteAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 5}))

		n, err := store.DeleteAll(context.Background(), "toDo")

		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})
}

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, buildFilter(repository.ListQuery{}))

	filter := buildFilter(repository.ListQuery{
		Eq: map[string]interface{}{"assignedTo": "u1"},
		Ne: map[string]interface{}{"status": "Completed"},
	})
	assert.ElementsMatch(t, []bson.M{
		{"assignedTo": "u1"},
		{"status": bson.M{"$ne": "Completed"}},
	}, filter["$and"])
}
