// Package dao holds the data-access objects of the ToDo application. They
// translate endpoint parameters into DocumentStore calls and shape the
// records returned to clients.
package dao

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/eventbus"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/todo/domain/model"
	"todo-mbaas/internal/todo/domain/repository"
	"todo-mbaas/internal/todo/validation"
)

const eventSource = "todo_dao"

// DefaultFetchConcurrency bounds the assignee lookups of a ToDo listing.
const DefaultFetchConcurrency = 5

// ToDoDAO reads and writes the toDo collection.
type ToDoDAO struct {
	store       repository.DocumentStore
	publisher   eventbus.Publisher
	concurrency int
	now         func() time.Time
	logger      logger.Logger
}

// ToDoDAOOption configures a ToDoDAO.
type ToDoDAOOption func(*ToDoDAO)

// WithClock replaces time.Now for createdOn stamps.
func WithClock(now func() time.Time) ToDoDAOOption {
	return func(d *ToDoDAO) { d.now = now }
}

// WithFetchConcurrency sets the enrichment worker limit.
func WithFetchConcurrency(n int) ToDoDAOOption {
	return func(d *ToDoDAO) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// NewToDoDAO creates a ToDoDAO. publisher may be nil, in which case no change
// events are emitted.
func NewToDoDAO(store repository.DocumentStore, publisher eventbus.Publisher, log logger.Logger, opts ...ToDoDAOOption) *ToDoDAO {
	d := &ToDoDAO{
		store:       store,
		publisher:   publisher,
		concurrency: DefaultFetchConcurrency,
		now:         time.Now,
		logger:      log.WithComponent("todo_dao"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateToDo stores a new ToDo in status New and returns its id.
func (d *ToDoDAO) CreateToDo(ctx context.Context, p CreateToDoParams) (string, error) {
	deadline, err := parseDate(p.Deadline)
	if err != nil {
		return "", err
	}
	lat, long, err := parseLocation(p.Latitude, p.Longitude)
	if err != nil {
		return "", err
	}

	todo := model.ToDo{
		Title:       p.Title,
		Description: p.Description,
		CreatedOn:   model.FormatTimestamp(d.now()),
		Deadline:    deadline,
		CreatedBy:   p.UserID,
		AssignedTo:  p.AssignedTo,
		Status:      model.StatusNew,
		Note:        "",
		Location:    model.NewLocation(lat, long),
	}
	fields, err := model.EncodeFields(todo)
	if err != nil {
		return "", apperrors.NewInternalError(MsgInsertToDo).WithCause(err)
	}

	rec, err := d.store.Create(ctx, model.ToDoCollection, fields)
	if err != nil {
		d.logger.WithContext(ctx).Errorf("Error inserting data into ToDo collection - %v", err)
		return "", apperrors.NewStoreError(MsgInsertToDo).WithCause(err)
	}
	d.logger.WithContext(ctx).Infof("ToDo %s created", rec.GUID)

	todo.ID = rec.GUID
	d.publish(ctx, model.EventToDoCreated, &todo, "", p.UserID)
	return rec.GUID, nil
}

// FetchToDos lists the open ToDos visible to the caller: every ToDo for an
// Admin, the ToDos assigned to userID otherwise. The result is sorted by
// deadline.
func (d *ToDoDAO) FetchToDos(ctx context.Context, userID, role string) ([]model.ToDoView, error) {
	return d.fetchToDos(ctx, userID, role, false)
}

// FetchToDosWithDetails is FetchToDos with completedDetails filled in.
func (d *ToDoDAO) FetchToDosWithDetails(ctx context.Context, userID, role string) ([]model.ToDoView, error) {
	return d.fetchToDos(ctx, userID, role, true)
}

type sortableView struct {
	view model.ToDoView
	at   time.Time
}

func (d *ToDoDAO) fetchToDos(ctx context.Context, userID, role string, withDetails bool) ([]model.ToDoView, error) {
	query := scopedQuery(userID, role)
	query.Ne = map[string]interface{}{"status": model.StatusCompleted}

	todos, err := d.list(ctx, query)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	out := make([]sortableView, 0, len(todos))
	err = d.enrich(ctx, todos, func(todo *model.ToDo, assignee *model.User) {
		view := model.ToDoView{
			ToDoID:      todo.ID,
			Title:       todo.Title,
			Description: todo.Description,
			Deadline:    model.DatePart(todo.Deadline),
			AssignedTo: model.Assignee{
				UserID:   todo.AssignedTo,
				UserName: assignee.BasicInfo.FirstName,
			},
			Location: todo.Location,
			Status:   todo.Status,
			Note:     todo.Note,
		}
		if withDetails {
			details := todo.CompletedDetails
			view.CompletedDetails = &details
		}
		at, _ := model.ParseTimestamp(todo.Deadline)

		mu.Lock()
		out = append(out, sortableView{view: view, at: at})
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	sortViews(out)
	views := make([]model.ToDoView, len(out))
	for i, v := range out {
		views[i] = v.view
	}
	return views, nil
}

// FetchCompletedToDos lists completed ToDos visible to the caller, sorted by
// completion time.
func (d *ToDoDAO) FetchCompletedToDos(ctx context.Context, userID, role string) ([]model.CompletedToDoView, error) {
	query := scopedQuery(userID, role)
	query.Eq["status"] = model.StatusCompleted

	todos, err := d.list(ctx, query)
	if err != nil {
		return nil, err
	}

	type sortableCompleted struct {
		view model.CompletedToDoView
		at   time.Time
	}
	var mu sync.Mutex
	out := make([]sortableCompleted, 0, len(todos))
	err = d.enrich(ctx, todos, func(todo *model.ToDo, assignee *model.User) {
		cd := todo.CompletedDetails
		view := model.CompletedToDoView{
			ToDoID:      todo.ID,
			Title:       todo.Title,
			Description: todo.Description,
			Deadline:    model.DatePart(todo.Deadline),
			RequiredLocation: model.Coordinates{
				Latitude:  todo.Location.Latitude,
				Longitude: todo.Location.Longitude,
			},
			CompletedBy: assignee.BasicInfo.FirstName,
			CompletedOn: model.DateMinute(cd.CompletedOn),
			WhereCompleted: model.Coordinates{
				Latitude:  cd.Location.Latitude,
				Longitude: cd.Location.Longitude,
			},
			Note:  cd.Note,
			Photo: cd.Photo,
		}
		at, _ := model.ParseTimestamp(cd.CompletedOn)

		mu.Lock()
		out = append(out, sortableCompleted{view: view, at: at})
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].at.Equal(out[j].at) {
			return out[i].at.Before(out[j].at)
		}
		return out[i].view.ToDoID < out[j].view.ToDoID
	})
	views := make([]model.CompletedToDoView, len(out))
	for i, v := range out {
		views[i] = v.view
	}
	return views, nil
}

// UpdateToDo is the User-side edit: description, deadline, location, status
// and note.
func (d *ToDoDAO) UpdateToDo(ctx context.Context, p UpdateToDoParams) error {
	deadline, err := parseDate(p.Deadline)
	if err != nil {
		return err
	}
	lat, long, err := parseLocation(p.Latitude, p.Longitude)
	if err != nil {
		return err
	}
	if !model.IsValidStatus(p.Status) {
		return apperrors.NewBadInputError(MsgInvalidStatus + p.Status)
	}

	return d.readModifyWrite(ctx, p.ToDoID, MsgUpdateToDo, model.EventToDoUpdated, p.UserID, func(todo *model.ToDo) {
		todo.Description = p.Description
		todo.Deadline = deadline
		todo.Location.Latitude = &lat
		todo.Location.Longitude = &long
		todo.Status = p.Status
		todo.Note = p.Note
	})
}

// CompleteToDo marks a ToDo Completed and records where and when.
func (d *ToDoDAO) CompleteToDo(ctx context.Context, p CompleteToDoParams) error {
	completedOn, err := parseDate(p.CompletedOn)
	if err != nil {
		return err
	}
	lat, long, err := parseLocation(p.Latitude, p.Longitude)
	if err != nil {
		return err
	}

	return d.readModifyWrite(ctx, p.ToDoID, MsgUpdateToDo, model.EventToDoCompleted, p.UserID, func(todo *model.ToDo) {
		todo.Status = model.StatusCompleted
		todo.CompletedDetails.Note = p.Note
		todo.CompletedDetails.CompletedOn = completedOn
		todo.CompletedDetails.Location.Latitude = &lat
		todo.CompletedDetails.Location.Longitude = &long
		todo.CompletedDetails.Photo = p.Photo
	})
}

// ChangeToDo is the Admin-side edit: title, description, deadline, assignee
// and location.
func (d *ToDoDAO) ChangeToDo(ctx context.Context, p ChangeToDoParams) error {
	deadline, err := parseDate(p.Deadline)
	if err != nil {
		return err
	}
	lat, long, err := parseLocation(p.Latitude, p.Longitude)
	if err != nil {
		return err
	}

	return d.readModifyWrite(ctx, p.ToDoID, MsgChangeToDo, model.EventToDoChanged, p.UserID, func(todo *model.ToDo) {
		todo.Title = p.Title
		todo.Description = p.Description
		todo.Deadline = deadline
		todo.AssignedTo = p.AssignedTo
		todo.Location.Latitude = &lat
		todo.Location.Longitude = &long
	})
}

// DeleteToDo removes a ToDo.
func (d *ToDoDAO) DeleteToDo(ctx context.Context, toDoID, userID string) error {
	rec, err := d.store.Delete(ctx, model.ToDoCollection, toDoID)
	if err != nil {
		d.logger.WithContext(ctx).Errorf("Error deleting data from ToDo collection - %v", err)
		return apperrors.NewStoreError(MsgDeleteToDo).WithCause(err)
	}

	var todo model.ToDo
	if err := model.DecodeFields(rec.Fields, &todo); err != nil {
		d.logger.WithContext(ctx).Warnf("deleted ToDo %s has malformed fields: %v", toDoID, err)
	}
	todo.ID = toDoID
	d.publish(ctx, model.EventToDoDeleted, &todo, "", userID)
	return nil
}

// ReadToDo returns the stored ToDo.
func (d *ToDoDAO) ReadToDo(ctx context.Context, toDoID string) (*model.ToDo, error) {
	rec, err := d.store.Read(ctx, model.ToDoCollection, toDoID)
	if err != nil {
		return nil, err
	}
	return decodeToDo(rec)
}

// ReplaceToDo overwrites the stored ToDo with todo.
func (d *ToDoDAO) ReplaceToDo(ctx context.Context, todo *model.ToDo, userID string) error {
	fields, err := model.EncodeFields(todo)
	if err != nil {
		return apperrors.NewInternalError(MsgUpdateToDo).WithCause(err)
	}
	var previous string
	if rec, err := d.store.Read(ctx, model.ToDoCollection, todo.ID); err == nil {
		previous, _ = rec.Fields["assignedTo"].(string)
	}
	if _, err := d.store.Update(ctx, model.ToDoCollection, todo.ID, fields); err != nil {
		return apperrors.NewStoreError(MsgUpdateToDo).WithCause(err)
	}
	d.publish(ctx, model.EventToDoUpdated, todo, previous, userID)
	return nil
}

// readModifyWrite loads a ToDo, applies mutate and writes the whole record
// back. Concurrent edits of the same ToDo can overwrite each other.
func (d *ToDoDAO) readModifyWrite(ctx context.Context, toDoID, updateMsg, eventType, userID string, mutate func(*model.ToDo)) error {
	log := d.logger.WithContext(ctx)

	todo, err := d.ReadToDo(ctx, toDoID)
	if err != nil {
		log.Errorf("Error reading data from ToDo collection - %v", err)
		return apperrors.NewStoreError(MsgReadToDo).WithCause(err)
	}

	previous := todo.AssignedTo
	mutate(todo)

	fields, err := model.EncodeFields(todo)
	if err != nil {
		return apperrors.NewInternalError(updateMsg).WithCause(err)
	}
	if _, err := d.store.Update(ctx, model.ToDoCollection, toDoID, fields); err != nil {
		log.Errorf("Error updating data into ToDo collection - %v", err)
		return apperrors.NewStoreError(updateMsg).WithCause(err)
	}

	d.publish(ctx, eventType, todo, previous, userID)
	return nil
}

func (d *ToDoDAO) list(ctx context.Context, query repository.ListQuery) ([]*model.ToDo, error) {
	res, err := d.store.List(ctx, model.ToDoCollection, query)
	if err != nil {
		d.logger.WithContext(ctx).Errorf("Error reading data from ToDo collection - %v", err)
		return nil, apperrors.NewStoreError(MsgReadToDo).WithCause(err)
	}
	if err := validation.ValidateToDoList(res); err != nil {
		return nil, err
	}

	todos := make([]*model.ToDo, 0, len(res.List))
	for i := range res.List {
		todo, err := decodeToDo(&res.List[i])
		if err != nil {
			return nil, apperrors.NewStoreError(MsgReadToDo).WithCause(err)
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

// enrich looks up the assignee of every ToDo with at most d.concurrency reads
// in flight and calls emit once per ToDo. emit runs concurrently and in no
// particular order. A ToDo whose assignee is missing or unreadable is left
// out; only store failures abort the whole list.
func (d *ToDoDAO) enrich(ctx context.Context, todos []*model.ToDo, emit func(*model.ToDo, *model.User)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, todo := range todos {
		todo := todo
		g.Go(func() error {
			rec, err := d.store.Read(gctx, model.UserCollection, todo.AssignedTo)
			if apperrors.IsNotFound(err) {
				d.logger.WithContext(ctx).Warnf("Skipping ToDo %s, assignee %q not found", todo.ID, todo.AssignedTo)
				return nil
			}
			if err != nil {
				d.logger.WithContext(ctx).Errorf("Error reading data from User collection - %v", err)
				return apperrors.NewStoreError(MsgReadToDo).WithCause(err)
			}
			var user model.User
			if err := model.DecodeFields(rec.Fields, &user); err != nil {
				d.logger.WithContext(ctx).Warnf("Skipping ToDo %s, assignee %s is malformed - %v", todo.ID, todo.AssignedTo, err)
				return nil
			}
			user.ID = rec.GUID
			emit(todo, &user)
			return nil
		})
	}
	return g.Wait()
}

// publish announces a change. previousAssignee is kept only when the change
// moved the ToDo away from that user.
func (d *ToDoDAO) publish(ctx context.Context, eventType string, todo *model.ToDo, previousAssignee, userID string) {
	if d.publisher == nil {
		return
	}
	if previousAssignee == todo.AssignedTo {
		previousAssignee = ""
	}
	d.publisher.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, model.ToDoChange{
		ToDoID:           todo.ID,
		AssignedTo:       todo.AssignedTo,
		PreviousAssignee: previousAssignee,
		Status:           todo.Status,
		Title:            todo.Title,
		ChangedBy:        userID,
	}, eventSource))
}

// scopedQuery restricts non-Admin callers to the ToDos assigned to them.
func scopedQuery(userID, role string) repository.ListQuery {
	q := repository.ListQuery{Eq: map[string]interface{}{}}
	if role != model.RoleAdmin {
		q.Eq["assignedTo"] = userID
	}
	return q
}

// sortViews orders by deadline, then by id so equal deadlines are stable
// across runs.
func sortViews(views []sortableView) {
	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].at.Equal(views[j].at) {
			return views[i].at.Before(views[j].at)
		}
		return views[i].view.ToDoID < views[j].view.ToDoID
	})
}

func decodeToDo(rec *repository.Record) (*model.ToDo, error) {
	var todo model.ToDo
	if err := model.DecodeFields(rec.Fields, &todo); err != nil {
		return nil, err
	}
	todo.ID = rec.GUID
	return &todo, nil
}
