package model

// Application types sent in request.header.appType.
const (
	AppTypePortal = "Portal"
	AppTypeClient = "Client"
)

// Role types.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// ToDo statuses.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusRejected   = "Rejected"
	StatusCompleted  = "Completed"
)

// Collection names in the document store.
const (
	RoleCollection = "role"
	UserCollection = "user"
	ToDoCollection = "toDo"
)

// Default accounts created by master data seeding.
const (
	DefaultAdminUserName = "Janine"
	DefaultAdminPassword = "Firehouse"
	DefaultUserSpengler  = "Spengler"
	DefaultUserVenkman   = "Venkman"
	DefaultUserStantz    = "Stantz"
	DefaultUserZeddemore = "Zeddemore"
	DefaultUserPassword  = "TheKeymaster"
)

// DefaultUsers lists the User-role accounts in seeding order.
var DefaultUsers = []string{DefaultUserSpengler, DefaultUserVenkman, DefaultUserStantz, DefaultUserZeddemore}

// IsValidStatus reports whether s is one of the four ToDo statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusRejected, StatusCompleted:
		return true
	}
	return false
}
