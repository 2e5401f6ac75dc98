package validation

import (
	"todo-mbaas/internal/todo/domain/repository"

	apperrors "todo-mbaas/internal/shared/errors"
)

// Data-layer validation messages.
const (
	MsgToDoNotFound       = "ToDo information not found."
	MsgNoToDoList         = "There is no ToDo list."
	MsgRoleNotFound       = "Role information not found."
	MsgDuplicateRole      = "More than one Role exists with same Role type"
	MsgUserNotFound       = "User information not found."
	MsgNoUserList         = "There is no User List."
	MsgInvalidCredentials = "Invalid username or password."
	MsgDuplicateUser      = "More than one user exists with same username."
)

// ValidateToDoList requires a non-empty ToDo list.
func ValidateToDoList(res *repository.ListResult) error {
	if res == nil || res.List == nil {
		return apperrors.NewNotFoundError(MsgToDoNotFound)
	}
	if res.Count == 0 {
		return apperrors.NewNotFoundError(MsgNoToDoList)
	}
	return nil
}

// ValidateRole requires exactly one role record.
func ValidateRole(res *repository.ListResult) error {
	if res == nil {
		return apperrors.NewNotFoundError(MsgRoleNotFound)
	}
	switch {
	case res.Count == 0:
		return apperrors.NewNotFoundError(MsgRoleNotFound)
	case res.Count != 1:
		return apperrors.NewBadInputError(MsgDuplicateRole)
	case len(res.List) == 0:
		return apperrors.NewNotFoundError(MsgRoleNotFound)
	}
	return nil
}

// ValidateUserList requires a non-empty user list.
func ValidateUserList(res *repository.ListResult) error {
	if res == nil {
		return apperrors.NewNotFoundError(MsgUserNotFound)
	}
	if res.Count == 0 {
		return apperrors.NewNotFoundError(MsgNoUserList)
	}
	if len(res.List) == 0 {
		return apperrors.NewNotFoundError(MsgUserNotFound)
	}
	return nil
}

// ValidateAuthenticatedUser requires exactly one user matching a credential
// lookup.
func ValidateAuthenticatedUser(res *repository.ListResult) error {
	if res == nil {
		return apperrors.NewNotFoundError(MsgUserNotFound)
	}
	switch {
	case res.Count == 0:
		return apperrors.NewAuthFailureError(MsgInvalidCredentials)
	case res.Count != 1:
		return apperrors.NewBadInputError(MsgDuplicateUser)
	case len(res.List) == 0:
		return apperrors.NewNotFoundError(MsgUserNotFound)
	}
	return nil
}
