package dao

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/todo/domain/model"
)

// CreateToDoParams carries a createToDo request. Deadline, Latitude and
// Longitude hold the raw request values and are parsed by the DAO.
type CreateToDoParams struct {
	UserID      string
	Title       string
	Description string
	Deadline    interface{}
	AssignedTo  string
	Latitude    interface{}
	Longitude   interface{}
}

// UpdateToDoParams carries an updateToDo request.
type UpdateToDoParams struct {
	UserID      string
	ToDoID      string
	Description string
	Deadline    interface{}
	Latitude    interface{}
	Longitude   interface{}
	Status      string
	Note        string
}

// CompleteToDoParams carries a completeToDo request.
type CompleteToDoParams struct {
	UserID      string
	ToDoID      string
	Note        string
	CompletedOn interface{}
	Latitude    interface{}
	Longitude   interface{}
	Photo       string
}

// ChangeToDoParams carries a changeToDo request.
type ChangeToDoParams struct {
	UserID      string
	ToDoID      string
	Title       string
	Description string
	Deadline    interface{}
	AssignedTo  string
	Latitude    interface{}
	Longitude   interface{}
}

// Credentials carries an authentication request.
type Credentials struct {
	AppType  string
	UserName string
	Password string
}

func parseDate(v interface{}) (string, error) {
	ts, err := model.NormalizeTimestamp(v)
	if err != nil {
		return "", apperrors.NewBadInputError(MsgInvalidDate + fmt.Sprint(v)).WithCause(err)
	}
	return ts, nil
}

// parseCoordinate accepts JSON numbers and numeric strings.
func parseCoordinate(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f, nil
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f, nil
		}
	}
	return 0, apperrors.NewBadInputError(MsgInvalidCoord + fmt.Sprint(v))
}

func parseLocation(lat, long interface{}) (float64, float64, error) {
	la, err := parseCoordinate(lat)
	if err != nil {
		return 0, 0, err
	}
	lo, err := parseCoordinate(long)
	if err != nil {
		return 0, 0, err
	}
	return la, lo, nil
}
