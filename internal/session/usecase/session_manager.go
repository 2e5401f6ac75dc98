package usecase

import (
	"context"
	"strings"
	"time"

	"todo-mbaas/internal/session/domain/model"
	"todo-mbaas/internal/session/domain/repository"
	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SessionManager owns the session lifecycle. Every successful read rewrites
// the stored value with a fresh TTL, so sessions expire only after a full
// timeout of inactivity.
type SessionManager interface {
	GenerateSessionID() string
	CreateSession(ctx context.Context) (string, error)
	SetSessionAttributes(ctx context.Context, sessionID string, attributes map[string]interface{}) (bool, error)
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	IsValidSession(ctx context.Context, sessionID string) (bool, error)
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	DestroySession(ctx context.Context, sessionID string) (bool, error)
}

// Manager is the SessionManager over a SessionStore.
type Manager struct {
	store   repository.SessionStore
	timeout time.Duration
	newID   func() string
	logger  logger.Logger
}

var _ SessionManager = (*Manager)(nil)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) ManagerOption {
	return func(m *Manager) { m.newID = gen }
}

// NewSessionManager creates a Manager whose sessions live for timeout after
// their last access.
func NewSessionManager(store repository.SessionStore, timeout time.Duration, log logger.Logger, opts ...ManagerOption) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	m := &Manager{
		store:   store,
		timeout: timeout,
		newID:   uuid.NewString,
		logger:  log.WithComponent("session_manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GenerateSessionID returns a new random token.
func (m *Manager) GenerateSessionID() string {
	return m.newID()
}

// CreateSession stores a fresh session object and returns its token.
func (m *Manager) CreateSession(ctx context.Context) (string, error) {
	sessionID := m.GenerateSessionID()

	raw, err := json.Marshal(model.New(sessionID))
	if err != nil {
		return "", apperrors.NewInternalError("Failed to serialize session object").WithCause(err)
	}
	if err := m.store.Set(ctx, sessionID, string(raw), m.timeout); err != nil {
		m.logger.Errorf("Failed to save session object - %v", err)
		return "", apperrors.NewStoreError("Failed to save session object to session store").WithCause(err).WithComponent("session_manager")
	}

	m.logger.Debugf("Session created successfully - %s", sessionID)
	return sessionID, nil
}

// SetSessionAttributes merges attributes into an existing session. It returns
// false, without error, when no session exists for sessionID.
func (m *Manager) SetSessionAttributes(ctx context.Context, sessionID string, attributes map[string]interface{}) (bool, error) {
	if isBlank(sessionID) {
		return false, apperrors.NewInvalidArgumentError("SessionId not provided to setSessionAttributes().")
	}
	if attributes == nil {
		return false, apperrors.NewInvalidArgumentError("AttributesMap not provided to setSessionAttributes().")
	}

	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	raw, err := json.Marshal(session.Merge(attributes))
	if err != nil {
		return false, apperrors.NewInternalError("Failed to serialize session object").WithCause(err)
	}
	if err := m.store.Set(ctx, sessionID, string(raw), m.timeout); err != nil {
		m.logger.Errorf("Unable to set attribute into session %s - %v", sessionID, err)
		return false, apperrors.NewStoreError("Unable to set attribute into Session").WithCause(err)
	}
	return true, nil
}

// GetSession loads a session and restarts its TTL.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (model.Session, error) {
	if isBlank(sessionID) {
		return nil, apperrors.NewInvalidArgumentError("SessionId not provided to getSession().")
	}

	raw, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		m.logger.Errorf("Error fetching session object from session - %v", err)
		return nil, apperrors.NewStoreError("Error fetching session object from session").WithCause(err)
	}
	if !found {
		return nil, apperrors.NewNotFoundError("Session does not exist for sessionId - " + sessionID).WithCause(apperrors.ErrSessionNotFound)
	}

	if err := m.resetSessionTimeout(ctx, sessionID, raw); err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, apperrors.NewStoreError("Error parsing session object").WithCause(err)
	}
	if session == nil {
		session = model.Session{}
	}
	return session, nil
}

// IsValidSession reports whether a live session exists, restarting its TTL
// when it does.
func (m *Manager) IsValidSession(ctx context.Context, sessionID string) (bool, error) {
	if isBlank(sessionID) {
		return false, apperrors.NewInvalidArgumentError("SessionId not provided to isValidSession().")
	}

	raw, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return false, apperrors.NewStoreError("Error fetching session object from session").WithCause(err)
	}
	if !found {
		return false, nil
	}

	if err := m.resetSessionTimeout(ctx, sessionID, raw); err != nil {
		return false, err
	}
	return true, nil
}

// SessionExists is IsValidSession without the TTL restart. Long-lived
// connections use it so that holding a socket open does not keep an idle
// session alive.
func (m *Manager) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	if isBlank(sessionID) {
		return false, apperrors.NewInvalidArgumentError("SessionId not provided to sessionExists().")
	}
	_, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return false, apperrors.NewStoreError("Error fetching session object from session").WithCause(err)
	}
	return found, nil
}

// DestroySession removes a session. Removing an unknown or expired session is
// a NotFound error.
func (m *Manager) DestroySession(ctx context.Context, sessionID string) (bool, error) {
	if isBlank(sessionID) {
		return false, apperrors.NewInvalidArgumentError("SessionId not provided to destroySession().")
	}

	removed, err := m.store.Remove(ctx, sessionID)
	if err != nil {
		return false, apperrors.NewStoreError("Error removing session object from session store. SessionId - " + sessionID).WithCause(err)
	}
	if !removed {
		return false, apperrors.NewNotFoundError("Error removing session object from session store or bad sessionId. SessionId - " + sessionID).WithCause(apperrors.ErrSessionNotFound)
	}

	m.logger.Debugf("Session object removed successfully from session store. SessionId - %s", sessionID)
	return true, nil
}

func (m *Manager) resetSessionTimeout(ctx context.Context, sessionID, raw string) error {
	if err := m.store.Set(ctx, sessionID, raw, m.timeout); err != nil {
		m.logger.Errorf("Unable to reset session timeout for %s - %v", sessionID, err)
		return apperrors.NewStoreError("Unable to reset session timeout").WithCause(err)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
