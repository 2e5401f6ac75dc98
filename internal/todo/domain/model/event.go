package model

// Change event types published after ToDo mutations.
const (
	EventToDoCreated   = "todo.created"
	EventToDoUpdated   = "todo.updated"
	EventToDoCompleted = "todo.completed"
	EventToDoChanged   = "todo.changed"
	EventToDoDeleted   = "todo.deleted"
)

// ToDoEventTypes lists every change event type.
var ToDoEventTypes = []string{EventToDoCreated, EventToDoUpdated, EventToDoCompleted, EventToDoChanged, EventToDoDeleted}

// ToDoChange is the payload of a change event.
type ToDoChange struct {
	ToDoID     string `json:"toDoId"`
	AssignedTo string `json:"assignedTo,omitempty"`
	// PreviousAssignee is set when the change moved the ToDo to another user.
	PreviousAssignee string `json:"previousAssignee,omitempty"`
	Status           string `json:"status,omitempty"`
	Title            string `json:"title,omitempty"`
	ChangedBy        string `json:"changedBy,omitempty"`
}
