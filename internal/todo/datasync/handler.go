// Package datasync serves the "toDo" sync dataset: the list, create, read,
// update, delete and collision functions a sync client drives against the
// ToDo collection.
package datasync

import (
	"context"
	"strconv"
	"time"

	sessionmodel "todo-mbaas/internal/session/domain/model"
	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/shared/utils"
	"todo-mbaas/internal/todo/dao"
	"todo-mbaas/internal/todo/domain/model"
	"todo-mbaas/internal/todo/domain/repository"
	"todo-mbaas/internal/todo/endpoint"
	"todo-mbaas/internal/todo/validation"
)

// DatasetToDo is the only dataset served.
const DatasetToDo = "toDo"

// Sync functions.
const (
	FnList      = "list"
	FnCreate    = "create"
	FnRead      = "read"
	FnUpdate    = "update"
	FnDelete    = "delete"
	FnCollision = "collision"
)

// Categories of the session failures reported by the record functions.
const (
	categoryList      = "Fetch ToDo"
	categoryRead      = "Read ToDo"
	categoryUpdate    = "Update ToDo"
	categoryDelete    = "Delete ToDo"
	categoryCollision = "Sync Collision"
)

// Request is the body of a sync call.
type Request struct {
	Fn        string                 `json:"fn"`
	Request   endpoint.Request       `json:"request,omitempty"`
	UID       string                 `json:"uid,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	PreData   map[string]interface{} `json:"preData,omitempty"`
	PostData  map[string]interface{} `json:"postData,omitempty"`
	Hash      string                 `json:"hash,omitempty"`
	Timestamp interface{}            `json:"timestamp,omitempty"`
}

// Failure carries an envelope produced by an endpoint stage back to the
// transport.
type Failure struct {
	Envelope *response.Envelope
}

func (f *Failure) Error() string {
	if body := f.Envelope.Err(); body != nil {
		return string(body.Status) + " " + body.Category + ": " + body.Description
	}
	return "sync failure"
}

// Endpoints is the part of the endpoint service the dataset reuses.
type Endpoints interface {
	Authorize(ctx context.Context, req endpoint.Request, category string) (context.Context, sessionmodel.Session, *response.Envelope)
	Handler(action string) (endpoint.Handler, bool)
}

// ToDoStore is the data layer behind the dataset.
type ToDoStore interface {
	FetchToDosWithDetails(ctx context.Context, userID, role string) ([]model.ToDoView, error)
	ReadToDo(ctx context.Context, toDoID string) (*model.ToDo, error)
	ReplaceToDo(ctx context.Context, todo *model.ToDo, userID string) error
	DeleteToDo(ctx context.Context, toDoID, userID string) error
}

// Handler dispatches sync calls.
type Handler struct {
	endpoints  Endpoints
	todos      ToDoStore
	collisions repository.CollisionStore
	logger     logger.Logger
}

func NewHandler(endpoints Endpoints, todos ToDoStore, collisions repository.CollisionStore, log logger.Logger) *Handler {
	return &Handler{
		endpoints:  endpoints,
		todos:      todos,
		collisions: collisions,
		logger:     log.WithComponent("datasync"),
	}
}

// Handle runs req.Fn and returns its result. Every function runs the session
// stages on req.Request, except create, whose request travels in req.Data.
// Endpoint stage failures come back as *Failure.
func (h *Handler) Handle(ctx context.Context, req Request) (interface{}, error) {
	ctx = utils.WithOperation(ctx, "sync."+req.Fn)

	switch req.Fn {
	case FnList:
		return h.list(ctx, req)
	case FnCreate:
		return h.create(ctx, req)
	case FnRead:
		return h.read(ctx, req)
	case FnUpdate:
		return h.update(ctx, req)
	case FnDelete:
		return h.delete(ctx, req)
	case FnCollision:
		return h.collision(ctx, req)
	default:
		return nil, apperrors.NewBadInputError("Unknown sync function: " + req.Fn)
	}
}

// authorize runs the session stages on the sync call's request.
func (h *Handler) authorize(ctx context.Context, req Request, category string) (context.Context, sessionmodel.Session, error) {
	ctx, session, fail := h.endpoints.Authorize(ctx, req.Request, category)
	if fail != nil {
		h.logger.WithContext(ctx).Warnf("sync %s rejected: %s", req.Fn, fail.Err().Category)
		return ctx, nil, &Failure{Envelope: fail}
	}
	return ctx, session, nil
}

func (h *Handler) list(ctx context.Context, req Request) (interface{}, error) {
	const category = categoryList

	ctx, session, err := h.authorize(ctx, req, category)
	if err != nil {
		return nil, err
	}

	views, err := h.todos.FetchToDosWithDetails(ctx, session.UserID(), session.Role())
	if err != nil {
		if apperrors.MessageOf(err) == validation.MsgNoToDoList {
			return map[string]model.ToDoView{}, nil
		}
		h.logger.WithContext(ctx).Errorf("Error response from list: %v", err)
		return nil, &Failure{Envelope: response.NewError(response.StatusBadInput, category, "Operation Failed", apperrors.MessageOf(err))}
	}

	out := make(map[string]model.ToDoView, len(views))
	for _, v := range views {
		out[v.ToDoID] = v
	}
	return out, nil
}

func (h *Handler) create(ctx context.Context, req Request) (interface{}, error) {
	handler, ok := h.endpoints.Handler(endpoint.ActionCreateToDo)
	if !ok {
		return nil, apperrors.NewInternalError("createToDo action not registered")
	}
	env := handler(ctx, endpoint.Request(req.Data))
	if env.IsError() {
		h.logger.WithContext(ctx).Errorf("Error response from create: %s", env.Err().Description)
		return nil, &Failure{Envelope: env}
	}
	return env, nil
}

func (h *Handler) read(ctx context.Context, req Request) (interface{}, error) {
	ctx, _, err := h.authorize(ctx, req, categoryRead)
	if err != nil {
		return nil, err
	}
	if req.UID == "" {
		return nil, apperrors.NewBadInputError("uid not specified.")
	}
	todo, err := h.todos.ReadToDo(ctx, req.UID)
	if apperrors.IsNotFound(err) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, apperrors.WrapError(err, dao.MsgReadToDo)
	}
	return todo, nil
}

func (h *Handler) update(ctx context.Context, req Request) (interface{}, error) {
	ctx, session, err := h.authorize(ctx, req, categoryUpdate)
	if err != nil {
		return nil, err
	}
	if req.UID == "" {
		return nil, apperrors.NewBadInputError("uid not specified.")
	}
	return h.apply(ctx, req.UID, req.Data, session.UserID())
}

func (h *Handler) delete(ctx context.Context, req Request) (interface{}, error) {
	ctx, session, err := h.authorize(ctx, req, categoryDelete)
	if err != nil {
		return nil, err
	}
	if req.UID == "" {
		return nil, apperrors.NewBadInputError("uid not specified.")
	}
	if err := h.todos.DeleteToDo(ctx, req.UID, session.UserID()); err != nil {
		return nil, err
	}
	return map[string]interface{}{}, nil
}

// collision logs the conflicting edit, then resolves it in favour of the
// client: postData overwrites the record, or deletes it when absent.
func (h *Handler) collision(ctx context.Context, req Request) (interface{}, error) {
	ctx, session, err := h.authorize(ctx, req, categoryCollision)
	if err != nil {
		return nil, err
	}
	log := h.logger.WithContext(ctx)
	if req.UID == "" {
		return nil, apperrors.NewBadInputError("uid not specified.")
	}

	id, err := h.collisions.Append(ctx, repository.Collision{
		UID:       req.UID,
		Hash:      req.Hash,
		Timestamp: formatTimestamp(req.Timestamp),
		Pre:       req.PreData,
		Post:      req.PostData,
	})
	if err != nil {
		log.Errorf("failed to record collision for %s: %v", req.UID, err)
		return nil, err
	}

	if req.PostData == nil {
		if err := h.todos.DeleteToDo(ctx, req.UID, session.UserID()); err != nil {
			log.Errorf("Error resolving collision - %v", err)
			return nil, err
		}
	} else if _, err := h.apply(ctx, req.UID, req.PostData, session.UserID()); err != nil {
		log.Errorf("Error resolving collision - %v", err)
		return nil, err
	}

	log.Infof("collision %s resolved for %s", id, req.UID)
	return map[string]interface{}{"id": id}, nil
}

// clientRecord is the shape a sync client sends for a ToDo.
type clientRecord struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Deadline         interface{}            `json:"deadline"`
	Location         model.Location         `json:"location"`
	Status           string                 `json:"status"`
	Note             string                 `json:"note"`
	AssignedTo       model.Assignee         `json:"assignedTo"`
	CompletedDetails model.CompletedDetails `json:"completedDetails"`
}

func (h *Handler) apply(ctx context.Context, uid string, data map[string]interface{}, userID string) (*model.ToDo, error) {
	var rec clientRecord
	if err := model.DecodeFields(data, &rec); err != nil {
		return nil, apperrors.NewBadInputError("Malformed ToDo data.").WithCause(err)
	}
	deadline, err := model.NormalizeTimestamp(rec.Deadline)
	if err != nil {
		return nil, apperrors.NewBadInputError(dao.MsgInvalidDate + formatTimestamp(rec.Deadline))
	}

	todo, err := h.todos.ReadToDo(ctx, uid)
	if err != nil {
		return nil, apperrors.WrapError(err, dao.MsgReadToDo)
	}
	todo.Title = rec.Title
	todo.Description = rec.Description
	todo.Deadline = deadline
	todo.Location = rec.Location
	todo.Status = rec.Status
	todo.Note = rec.Note
	todo.AssignedTo = rec.AssignedTo.UserID
	todo.CompletedDetails = rec.CompletedDetails

	if err := h.todos.ReplaceToDo(ctx, todo, userID); err != nil {
		return nil, err
	}
	return todo, nil
}

func formatTimestamp(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case time.Time:
		return model.FormatTimestamp(t)
	default:
		return ""
	}
}
