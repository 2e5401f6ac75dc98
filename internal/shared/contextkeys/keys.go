package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "todo-mbaas context key " + string(c)
}

const (
	// RequestIDKey carries the id assigned by the requestid middleware.
	RequestIDKey = contextKey("requestID")
	// SessionIDKey carries the session token taken from request.header.sessionId.
	SessionIDKey = contextKey("sessionID")
	// UserIDKey carries the guid of the authenticated user.
	UserIDKey = contextKey("userID")
	// RoleKey carries the role type (Admin or User) of the authenticated user.
	RoleKey = contextKey("role")
	// ComponentKey and OperationKey are used by the logger.
	ComponentKey = contextKey("component")
	OperationKey = contextKey("operation")
)
