package dao

// Messages returned to clients when the data layer fails.
const (
	MsgInsertToDo    = "Error inserting data into ToDo collection."
	MsgReadToDo      = "Error reading data from ToDo collection."
	MsgUpdateToDo    = "Error updating data into ToDo collection."
	MsgChangeToDo    = "Error updating data into ToDo collection during changing operation."
	MsgDeleteToDo    = "Error deleting data from ToDo collection."
	MsgAuthFailed    = "Authentication failed."
	MsgRoleNotFound  = "Cannot find user role."
	MsgAccessDenied  = "Authentication Failure.Access is denied."
	MsgReadRole      = "Error reading data from Role collection."
	MsgReadUser      = "Error reading data from User collection."
	MsgInvalidDate   = "Invalid date: "
	MsgInvalidCoord  = "Invalid coordinate: "
	MsgInvalidStatus = "Invalid status: "
)
