// Package endpoint implements the client actions of the ToDo application.
// Every authenticated action runs the same short-circuiting pipeline:
// session token, session validity, session load, session attributes,
// request fields, data layer, response.
package endpoint

import (
	"context"
	"sort"

	"todo-mbaas/internal/session/usecase"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/todo/dao"
	"todo-mbaas/internal/todo/domain/model"
)

// Request is a decoded client request: {"request": {"header": {...}, "payload": {...}}}.
type Request = map[string]interface{}

// Request paths shared by every action.
const (
	pathSessionID = "request.header.sessionId"
	pathAppType   = "request.header.appType"
)

// Action names as exposed under /cloud/<action>.
const (
	ActionAuthenticate       = "authenticateAction"
	ActionLogout             = "logoutAction"
	ActionCreateToDo         = "createToDoAction"
	ActionFetchToDo          = "fetchToDoAction"
	ActionUpdateToDo         = "updateToDoAction"
	ActionCompleteToDo       = "completeToDoAction"
	ActionChangeToDo         = "changeToDoAction"
	ActionDeleteToDo         = "deleteToDoAction"
	ActionFetchUserList      = "fetchUserListAction"
	ActionFetchCompletedToDo = "fetchCompletedToDoAction"
)

// ToDoDataAccess is the data layer used by the ToDo actions.
type ToDoDataAccess interface {
	CreateToDo(ctx context.Context, p dao.CreateToDoParams) (string, error)
	FetchToDos(ctx context.Context, userID, role string) ([]model.ToDoView, error)
	FetchCompletedToDos(ctx context.Context, userID, role string) ([]model.CompletedToDoView, error)
	UpdateToDo(ctx context.Context, p dao.UpdateToDoParams) error
	CompleteToDo(ctx context.Context, p dao.CompleteToDoParams) error
	ChangeToDo(ctx context.Context, p dao.ChangeToDoParams) error
	DeleteToDo(ctx context.Context, toDoID, userID string) error
}

// UserDataAccess is the data layer used by authentication and the user list.
type UserDataAccess interface {
	FetchUser(ctx context.Context, c dao.Credentials) (*model.UserProfile, error)
	FetchUserList(ctx context.Context) ([]model.UserSummary, error)
}

// Handler answers one action.
type Handler func(ctx context.Context, req Request) *response.Envelope

// Service holds the dependencies of every action.
type Service struct {
	sessions usecase.SessionManager
	todos    ToDoDataAccess
	users    UserDataAccess
	logger   logger.Logger
	handlers map[string]Handler
}

// NewService wires the ten actions.
func NewService(sessions usecase.SessionManager, todos ToDoDataAccess, users UserDataAccess, log logger.Logger) *Service {
	s := &Service{
		sessions: sessions,
		todos:    todos,
		users:    users,
		logger:   log.WithComponent("endpoint"),
	}
	s.handlers = map[string]Handler{
		ActionAuthenticate:       s.Authenticate,
		ActionLogout:             s.Logout,
		ActionCreateToDo:         s.CreateToDo,
		ActionFetchToDo:          s.FetchToDos,
		ActionUpdateToDo:         s.UpdateToDo,
		ActionCompleteToDo:       s.CompleteToDo,
		ActionChangeToDo:         s.ChangeToDo,
		ActionDeleteToDo:         s.DeleteToDo,
		ActionFetchUserList:      s.FetchUserList,
		ActionFetchCompletedToDo: s.FetchCompletedToDos,
	}
	return s
}

// Handler returns the handler registered for action.
func (s *Service) Handler(action string) (Handler, bool) {
	h, ok := s.handlers[action]
	return h, ok
}

// Actions returns the registered action names in lexical order.
func (s *Service) Actions() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
