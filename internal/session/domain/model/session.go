package model

import "fmt"

// Attribute names stored in a session object.
const (
	AttrSessionID = "sessionId"
	AttrUserID    = "userId"
	AttrRole      = "role"
	AttrEmail     = "email"
)

// Session is the attribute map persisted under a session token. It is
// serialized as a JSON object.
type Session map[string]interface{}

// New returns the object written when a session is created.
func New(sessionID string) Session {
	return Session{AttrSessionID: sessionID}
}

// String returns attribute key formatted as a string, or "" when absent.
func (s Session) String(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

func (s Session) ID() string     { return s.String(AttrSessionID) }
func (s Session) UserID() string { return s.String(AttrUserID) }
func (s Session) Role() string   { return s.String(AttrRole) }
func (s Session) Email() string  { return s.String(AttrEmail) }

// Merge copies attrs into s, overriding existing keys, and returns s.
func (s Session) Merge(attrs map[string]interface{}) Session {
	for k, v := range attrs {
		s[k] = v
	}
	return s
}
