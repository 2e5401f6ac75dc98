package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	key := contextKey("testKey")
	assert.Equal(t, "todo-mbaas context key testKey", key.String())
}

func TestContextKeys_Usage(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")
	ctx = context.WithValue(ctx, SessionIDKey, "session-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-123")
	ctx = context.WithValue(ctx, RoleKey, "Admin")
	ctx = context.WithValue(ctx, ComponentKey, "component-logger")
	ctx = context.WithValue(ctx, OperationKey, "createToDoAction")

	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Equal(t, "session-1", ctx.Value(SessionIDKey))
	assert.Equal(t, "user-123", ctx.Value(UserIDKey))
	assert.Equal(t, "Admin", ctx.Value(RoleKey))
	assert.Equal(t, "component-logger", ctx.Value(ComponentKey))
	assert.Equal(t, "createToDoAction", ctx.Value(OperationKey))
	assert.Nil(t, ctx.Value(contextKey("missing")))
}
