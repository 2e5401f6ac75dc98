package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/todo/domain/repository"
)

func request(header, payload map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"request": map[string]interface{}{
			"header":  header,
			"payload": payload,
		},
	}
}

func TestValidateSessionParameters(t *testing.T) {
	tests := []struct {
		name    string
		session map[string]interface{}
		valid   bool
		message string
	}{
		{"complete", map[string]interface{}{"role": "Admin", "userId": "u1"}, true, ""},
		{"missing role", map[string]interface{}{"userId": "u1"}, false, "UserRole not exist in session parameters. "},
		{"blank user", map[string]interface{}{"role": "User", "userId": "  "}, false, "UserId not exist in session parameters. "},
		{"empty", map[string]interface{}{}, false, "UserRole not exist in session parameters. UserId not exist in session parameters. "},
		{"nil", nil, false, "UserRole not exist in session parameters. UserId not exist in session parameters. "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSessionParameters(tt.session)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestValidateAuthenticationRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := request(map[string]interface{}{"appType": "Client"},
			map[string]interface{}{"login": map[string]interface{}{"userName": "Spengler", "password": "TheKeymaster"}})
		res := ValidateAuthenticationRequest(req)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Message)
	})

	t.Run("aggregates every violation", func(t *testing.T) {
		req := request(map[string]interface{}{},
			map[string]interface{}{"login": map[string]interface{}{"userName": " ", "password": nil}})
		res := ValidateAuthenticationRequest(req)
		assert.False(t, res.Valid)
		assert.Equal(t, "Application Type not specified. UserName not specified. Password not specified. ", res.Message)
	})

	t.Run("missing request object", func(t *testing.T) {
		res := ValidateAuthenticationRequest(map[string]interface{}{})
		assert.False(t, res.Valid)
		assert.Equal(t, "Application Type not specified. UserName not specified. Password not specified. ", res.Message)
	})
}

func TestValidateChangeToDoRequest_EmptyKeepsExactSpacing(t *testing.T) {
	res := ValidateChangeToDoRequest(request(nil, map[string]interface{}{"changeToDo": map[string]interface{}{}}))

	assert.False(t, res.Valid)
	assert.Equal(t, "ToDo Id not specified. Title not specified. Description not specified. Deadline not specified.  AssignTo not specified.Latitude not specified. Longitude not specified. ", res.Message)
}

func TestValidateChangeToDoRequest_NumbersAreNeverBlank(t *testing.T) {
	res := ValidateChangeToDoRequest(request(nil, map[string]interface{}{"changeToDo": map[string]interface{}{
		"toDoId":      "t1",
		"title":       "title",
		"description": "desc",
		"deadline":    "2024-05-01",
		"assignedTo":  "u1",
		"latitude":    0.0,
		"longitude":   float64(0),
	}}))

	assert.True(t, res.Valid)
}

func TestValidateCreateToDoRequest(t *testing.T) {
	res := ValidateCreateToDoRequest(request(nil, map[string]interface{}{"createToDo": map[string]interface{}{
		"title":    "title",
		"deadline": "",
		"latitude": 1.5,
	}}))

	assert.False(t, res.Valid)
	assert.Equal(t, "Description not specified. Deadline not specified. AssignTo not specified. Longitude not specified. ", res.Message)
}

func TestValidateRequests_TextFieldsMustBeStrings(t *testing.T) {
	create := ValidateCreateToDoRequest(request(nil, map[string]interface{}{"createToDo": map[string]interface{}{
		"title":       123.0,
		"description": "desc",
		"deadline":    "2024-05-01",
		"assignedTo":  42.0,
		"latitude":    1.0,
		"longitude":   2.0,
	}}))
	assert.False(t, create.Valid)
	assert.Equal(t, "title must be a string. assignedTo must be a string. ", create.Message)

	change := ValidateChangeToDoRequest(request(nil, map[string]interface{}{"changeToDo": map[string]interface{}{
		"toDoId":     map[string]interface{}{"id": "t1"},
		"title":      "t",
		"assignedTo": true,
	}}))
	assert.False(t, change.Valid)
	assert.Equal(t, "Description not specified. Deadline not specified.  Latitude not specified. Longitude not specified. toDoId must be a string. assignedTo must be a string. ", change.Message)

	auth := ValidateAuthenticationRequest(request(
		map[string]interface{}{"appType": "Client"},
		map[string]interface{}{"login": map[string]interface{}{"userName": "Spengler", "password": 1234.0}},
	))
	assert.False(t, auth.Valid)
	assert.Equal(t, "password must be a string. ", auth.Message)

	del := ValidateDeleteToDoRequest(request(nil, map[string]interface{}{"deleteToDo": map[string]interface{}{"toDoId": 7.0}}))
	assert.Equal(t, "toDoId must be a string. ", del.Message)
}

func TestValidateCompleteToDoRequest(t *testing.T) {
	res := ValidateCompleteToDoRequest(request(nil, map[string]interface{}{"completeToDo": map[string]interface{}{
		"toDoId": "t1",
		"note":   "done",
	}}))

	assert.False(t, res.Valid)
	assert.Equal(t, "CompletedOn not specified. Latitude not specified. Longitude not specified. Photo not specified. ", res.Message)
}

func TestValidateUpdateToDoRequest(t *testing.T) {
	res := ValidateUpdateToDoRequest(request(nil, map[string]interface{}{}))

	assert.False(t, res.Valid)
	assert.Equal(t, "ToDo Id not specified. Description not specified. Deadline not specified. Latitude not specified. Longitude not specified. Status not specified. Note not specified. ", res.Message)
}

func TestValidateDeleteToDoRequest(t *testing.T) {
	assert.True(t, ValidateDeleteToDoRequest(request(nil, map[string]interface{}{"deleteToDo": map[string]interface{}{"toDoId": "t1"}})).Valid)

	res := ValidateDeleteToDoRequest(request(nil, map[string]interface{}{"deleteToDo": "t1"}))
	assert.False(t, res.Valid)
	assert.Equal(t, "ToDo Id not specified. ", res.Message)
}

func list(n int) *repository.ListResult {
	res := &repository.ListResult{Count: n, List: []repository.Record{}}
	for i := 0; i < n; i++ {
		res.List = append(res.List, repository.Record{GUID: "g"})
	}
	return res
}

func TestValidateToDoList(t *testing.T) {
	assert.NoError(t, ValidateToDoList(list(2)))

	err := ValidateToDoList(nil)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, MsgToDoNotFound, errors.MessageOf(err))

	assert.Equal(t, MsgNoToDoList, errors.MessageOf(ValidateToDoList(list(0))))
	assert.Equal(t, MsgToDoNotFound, errors.MessageOf(ValidateToDoList(&repository.ListResult{Count: 1})))
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole(list(1)))
	assert.Equal(t, MsgRoleNotFound, errors.MessageOf(ValidateRole(nil)))
	assert.Equal(t, MsgRoleNotFound, errors.MessageOf(ValidateRole(list(0))))
	assert.Equal(t, MsgDuplicateRole, errors.MessageOf(ValidateRole(list(2))))
	assert.Equal(t, MsgRoleNotFound, errors.MessageOf(ValidateRole(&repository.ListResult{Count: 1})))
}

func TestValidateUserList(t *testing.T) {
	assert.NoError(t, ValidateUserList(list(3)))
	assert.Equal(t, MsgUserNotFound, errors.MessageOf(ValidateUserList(nil)))
	assert.Equal(t, MsgNoUserList, errors.MessageOf(ValidateUserList(list(0))))
}

func TestValidateAuthenticatedUser(t *testing.T) {
	assert.NoError(t, ValidateAuthenticatedUser(list(1)))
	assert.Equal(t, MsgUserNotFound, errors.MessageOf(ValidateAuthenticatedUser(nil)))

	err := ValidateAuthenticatedUser(list(0))
	assert.True(t, errors.IsAuthFailure(err))
	assert.Equal(t, MsgInvalidCredentials, errors.MessageOf(err))

	assert.Equal(t, MsgDuplicateUser, errors.MessageOf(ValidateAuthenticatedUser(list(2))))
}
