package endpoint

import (
	"context"

	"todo-mbaas/internal/shared/jsonpath"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/shared/utils"
	"todo-mbaas/internal/todo/dao"
	"todo-mbaas/internal/todo/validation"
)

const (
	categoryCreateToDo         = "Create ToDo"
	categoryFetchToDo          = "Fetch ToDo"
	categoryUpdateToDo         = "Update ToDo"
	categoryCompleteToDo       = "Complete ToDo"
	categoryChangeToDo         = "Change ToDo"
	categoryDeleteToDo         = "Delete ToDo"
	categoryFetchUsers         = "Fetch Users"
	categoryFetchCompletedToDo = "Fetch Completed ToDo"
)

// CreateToDo stores a new ToDo assigned to payload.createToDo.assignedTo.
func (s *Service) CreateToDo(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionCreateToDo), req, categoryCreateToDo)
	if fail != nil {
		return fail
	}
	if fail := validateRequest(req, categoryCreateToDo, validation.ValidateCreateToDoRequest); fail != nil {
		return fail
	}

	const p = "request.payload.createToDo."
	id, err := s.todos.CreateToDo(auth.ctx, dao.CreateToDoParams{
		UserID:      auth.userID(),
		Title:       stringAt(req, p+"title"),
		Description: stringAt(req, p+"description"),
		Deadline:    jsonpath.GetPath(req, p+"deadline"),
		AssignedTo:  stringAt(req, p+"assignedTo"),
		Latitude:    jsonpath.GetPath(req, p+"latitude"),
		Longitude:   jsonpath.GetPath(req, p+"longitude"),
	})
	if err != nil {
		return s.dataFailure(auth.ctx, categoryCreateToDo, err)
	}
	return response.NewSuccess("createToDo", "ToDo created successfully.").Set("createToDo", "toDoId", id)
}

// FetchToDos lists the open ToDos visible to the session's user.
func (s *Service) FetchToDos(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionFetchToDo), req, categoryFetchToDo)
	if fail != nil {
		return fail
	}

	list, err := s.todos.FetchToDos(auth.ctx, auth.userID(), auth.role())
	if err != nil {
		return s.dataFailure(auth.ctx, categoryFetchToDo, err)
	}
	return response.NewSuccess("fetchToDos", "All ToDos fetched successfully.").Set("fetchToDos", "toDoList", list)
}

// UpdateToDo applies a User-side edit.
func (s *Service) UpdateToDo(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionUpdateToDo), req, categoryUpdateToDo)
	if fail != nil {
		return fail
	}
	if fail := validateRequest(req, categoryUpdateToDo, validation.ValidateUpdateToDoRequest); fail != nil {
		return fail
	}

	const p = "request.payload.updateToDo."
	err := s.todos.UpdateToDo(auth.ctx, dao.UpdateToDoParams{
		UserID:      auth.userID(),
		ToDoID:      stringAt(req, p+"toDoId"),
		Description: stringAt(req, p+"description"),
		Deadline:    jsonpath.GetPath(req, p+"deadline"),
		Latitude:    jsonpath.GetPath(req, p+"latitude"),
		Longitude:   jsonpath.GetPath(req, p+"longitude"),
		Status:      stringAt(req, p+"status"),
		Note:        stringAt(req, p+"note"),
	})
	if err != nil {
		return s.dataFailure(auth.ctx, categoryUpdateToDo, err)
	}
	return response.NewSuccess("updateToDo", "ToDo updated successfully.")
}

// CompleteToDo marks a ToDo Completed.
func (s *Service) CompleteToDo(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionCompleteToDo), req, categoryCompleteToDo)
	if fail != nil {
		return fail
	}
	if fail := validateRequest(req, categoryCompleteToDo, validation.ValidateCompleteToDoRequest); fail != nil {
		return fail
	}

	const p = "request.payload.completeToDo."
	err := s.todos.CompleteToDo(auth.ctx, dao.CompleteToDoParams{
		UserID:      auth.userID(),
		ToDoID:      stringAt(req, p+"toDoId"),
		Note:        stringAt(req, p+"note"),
		CompletedOn: jsonpath.GetPath(req, p+"completedOn"),
		Latitude:    jsonpath.GetPath(req, p+"latitude"),
		Longitude:   jsonpath.GetPath(req, p+"longitude"),
		Photo:       stringAt(req, p+"photo"),
	})
	if err != nil {
		return s.dataFailure(auth.ctx, categoryCompleteToDo, err)
	}
	return response.NewSuccess("completeToDo", "ToDo completed successfully.")
}

// ChangeToDo applies an Admin-side edit.
func (s *Service) ChangeToDo(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionChangeToDo), req, categoryChangeToDo)
	if fail != nil {
		return fail
	}
	if fail := validateRequest(req, categoryChangeToDo, validation.ValidateChangeToDoRequest); fail != nil {
		return fail
	}

	const p = "request.payload.changeToDo."
	err := s.todos.ChangeToDo(auth.ctx, dao.ChangeToDoParams{
		UserID:      auth.userID(),
		ToDoID:      stringAt(req, p+"toDoId"),
		Title:       stringAt(req, p+"title"),
		Description: stringAt(req, p+"description"),
		Deadline:    jsonpath.GetPath(req, p+"deadline"),
		AssignedTo:  stringAt(req, p+"assignedTo"),
		Latitude:    jsonpath.GetPath(req, p+"latitude"),
		Longitude:   jsonpath.GetPath(req, p+"longitude"),
	})
	if err != nil {
		return s.dataFailure(auth.ctx, categoryChangeToDo, err)
	}
	return response.NewSuccess("changeToDo", "ToDo changed successfully.")
}

// DeleteToDo removes a ToDo.
func (s *Service) DeleteToDo(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionDeleteToDo), req, categoryDeleteToDo)
	if fail != nil {
		return fail
	}
	if fail := validateRequest(req, categoryDeleteToDo, validation.ValidateDeleteToDoRequest); fail != nil {
		return fail
	}

	if err := s.todos.DeleteToDo(auth.ctx, stringAt(req, "request.payload.deleteToDo.toDoId"), auth.userID()); err != nil {
		return s.dataFailure(auth.ctx, categoryDeleteToDo, err)
	}
	return response.NewSuccess("deleteToDo", "ToDo deleted successfully.")
}

// FetchUserList lists the users a ToDo can be assigned to.
func (s *Service) FetchUserList(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionFetchUserList), req, categoryFetchUsers)
	if fail != nil {
		return fail
	}

	users, err := s.users.FetchUserList(auth.ctx)
	if err != nil {
		return s.dataFailure(auth.ctx, categoryFetchUsers, err)
	}
	return response.NewSuccess("fetchUsers", "All users fetched successfully.").Set("fetchUsers", "userList", users)
}

// FetchCompletedToDos lists completed ToDos visible to the session's user.
func (s *Service) FetchCompletedToDos(ctx context.Context, req Request) *response.Envelope {
	auth, fail := s.authorize(utils.WithOperation(ctx, ActionFetchCompletedToDo), req, categoryFetchCompletedToDo)
	if fail != nil {
		return fail
	}

	list, err := s.todos.FetchCompletedToDos(auth.ctx, auth.userID(), auth.role())
	if err != nil {
		return s.dataFailure(auth.ctx, categoryFetchCompletedToDo, err)
	}
	return response.NewSuccess("fetchCompletedToDos", "All completed ToDos fetched successfully.").
		Set("fetchCompletedToDos", "completedToDoList", list)
}
