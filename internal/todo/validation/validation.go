// Package validation checks client requests, session objects and data-layer
// responses. Request validators never stop at the first problem: every
// missing or blank field contributes its own message fragment, in field order.
package validation

import (
	"strings"

	"todo-mbaas/internal/shared/jsonpath"
)

// Result is the outcome of a request or session validation.
type Result struct {
	Valid   bool
	Message string
}

type rule struct {
	path    string
	message string
}

func check(doc interface{}, rules []rule) Result {
	res := Result{Valid: true}
	for _, r := range rules {
		if !jsonpath.IsPresent(doc, r.path) {
			res.Valid = false
			res.Message += r.message
		}
	}
	return res
}

// checkText adds a fragment for every path whose value is present but is not
// a JSON string. Missing values are left to check.
func checkText(doc interface{}, res Result, paths ...string) Result {
	for _, p := range paths {
		v := jsonpath.GetPath(doc, p)
		if v == nil {
			continue
		}
		if _, ok := v.(string); !ok {
			res.Valid = false
			res.Message += p[strings.LastIndex(p, ".")+1:] + " must be a string. "
		}
	}
	return res
}

var sessionRules = []rule{
	{"role", "UserRole not exist in session parameters. "},
	{"userId", "UserId not exist in session parameters. "},
}

// ValidateSessionParameters requires role and userId in a session object.
func ValidateSessionParameters(session map[string]interface{}) Result {
	return check(session, sessionRules)
}

var authenticationRules = []rule{
	{"request.header.appType", "Application Type not specified. "},
	{"request.payload.login.userName", "UserName not specified. "},
	{"request.payload.login.password", "Password not specified. "},
}

// ValidateAuthenticationRequest checks appType and the login credentials.
func ValidateAuthenticationRequest(req map[string]interface{}) Result {
	return checkText(req, check(req, authenticationRules),
		"request.header.appType", "request.payload.login.userName", "request.payload.login.password")
}

// The spacing of the deadline and assignedTo fragments is part of the
// client contract.
var changeToDoRules = []rule{
	{"request.payload.changeToDo.toDoId", "ToDo Id not specified. "},
	{"request.payload.changeToDo.title", "Title not specified. "},
	{"request.payload.changeToDo.description", "Description not specified. "},
	{"request.payload.changeToDo.deadline", "Deadline not specified.  "},
	{"request.payload.changeToDo.assignedTo", "AssignTo not specified."},
	{"request.payload.changeToDo.latitude", "Latitude not specified. "},
	{"request.payload.changeToDo.longitude", "Longitude not specified. "},
}

func ValidateChangeToDoRequest(req map[string]interface{}) Result {
	const p = "request.payload.changeToDo."
	return checkText(req, check(req, changeToDoRules), p+"toDoId", p+"title", p+"description", p+"assignedTo")
}

var completeToDoRules = []rule{
	{"request.payload.completeToDo.toDoId", "ToDo Id not specified. "},
	{"request.payload.completeToDo.note", "Note not specified. "},
	{"request.payload.completeToDo.completedOn", "CompletedOn not specified. "},
	{"request.payload.completeToDo.latitude", "Latitude not specified. "},
	{"request.payload.completeToDo.longitude", "Longitude not specified. "},
	{"request.payload.completeToDo.photo", "Photo not specified. "},
}

func ValidateCompleteToDoRequest(req map[string]interface{}) Result {
	const p = "request.payload.completeToDo."
	return checkText(req, check(req, completeToDoRules), p+"toDoId", p+"note", p+"photo")
}

var createToDoRules = []rule{
	{"request.payload.createToDo.title", "Title not specified. "},
	{"request.payload.createToDo.description", "Description not specified. "},
	{"request.payload.createToDo.deadline", "Deadline not specified. "},
	{"request.payload.createToDo.assignedTo", "AssignTo not specified. "},
	{"request.payload.createToDo.latitude", "Latitude not specified. "},
	{"request.payload.createToDo.longitude", "Longitude not specified. "},
}

func ValidateCreateToDoRequest(req map[string]interface{}) Result {
	const p = "request.payload.createToDo."
	return checkText(req, check(req, createToDoRules), p+"title", p+"description", p+"assignedTo")
}

var deleteToDoRules = []rule{
	{"request.payload.deleteToDo.toDoId", "ToDo Id not specified. "},
}

func ValidateDeleteToDoRequest(req map[string]interface{}) Result {
	return checkText(req, check(req, deleteToDoRules), "request.payload.deleteToDo.toDoId")
}

var updateToDoRules = []rule{
	{"request.payload.updateToDo.toDoId", "ToDo Id not specified. "},
	{"request.payload.updateToDo.description", "Description not specified. "},
	{"request.payload.updateToDo.deadline", "Deadline not specified. "},
	{"request.payload.updateToDo.latitude", "Latitude not specified. "},
	{"request.payload.updateToDo.longitude", "Longitude not specified. "},
	{"request.payload.updateToDo.status", "Status not specified. "},
	{"request.payload.updateToDo.note", "Note not specified. "},
}

func ValidateUpdateToDoRequest(req map[string]interface{}) Result {
	const p = "request.payload.updateToDo."
	return checkText(req, check(req, updateToDoRules), p+"toDoId", p+"description", p+"status", p+"note")
}
