package model

// Location is a point with an optional street address. Coordinates are nil
// until a ToDo is completed for completedDetails.location.
type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// NewLocation returns a Location at lat/long with an empty address.
func NewLocation(lat, long float64) Location {
	return Location{Latitude: &lat, Longitude: &long}
}

// CompletedDetails records who finished a ToDo, when and where.
type CompletedDetails struct {
	Note        string   `json:"note"`
	CompletedOn string   `json:"completedOn"`
	Photo       string   `json:"photo"`
	Location    Location `json:"location"`
}

// ToDo is the stored representation of a task. Timestamps are ISO-8601 UTC
// strings as produced by FormatTimestamp.
type ToDo struct {
	ID               string           `json:"-"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	CreatedOn        string           `json:"createdOn"`
	Deadline         string           `json:"deadline"`
	CreatedBy        string           `json:"createdBy"`
	AssignedTo       string           `json:"assignedTo"`
	Status           string           `json:"status"`
	Note             string           `json:"note"`
	Location         Location         `json:"location"`
	CompletedDetails CompletedDetails `json:"completedDetails"`
}

// Assignee is the {userId, userName} pair shown for a ToDo.
type Assignee struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// ToDoView is a ToDo as returned by fetchToDoAction: the deadline is reduced
// to its date and the assignee carries a display name.
type ToDoView struct {
	ToDoID           string            `json:"toDoId"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Deadline         string            `json:"deadline"`
	AssignedTo       Assignee          `json:"assignedTo"`
	Location         Location          `json:"location"`
	Status           string            `json:"status"`
	Note             string            `json:"note"`
	CompletedDetails *CompletedDetails `json:"completedDetails,omitempty"`
}

// Coordinates is a bare latitude/longitude pair.
type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CompletedToDoView is a completed ToDo as returned by fetchCompletedToDoAction.
type CompletedToDoView struct {
	ToDoID           string      `json:"toDoId"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Deadline         string      `json:"deadline"`
	RequiredLocation Coordinates `json:"requiredLocation"`
	CompletedBy      string      `json:"completedBy"`
	CompletedOn      string      `json:"completedOn"`
	WhereCompleted   Coordinates `json:"whereCompleted"`
	Note             string      `json:"note"`
	Photo            string      `json:"photo"`
}
