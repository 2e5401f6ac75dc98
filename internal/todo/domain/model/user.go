package model

// BasicInfo holds a user's personal details.
type BasicInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// AccountInfo holds credentials. Password is stored encoded (base64 or bcrypt).
type AccountInfo struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
	RoleID   string `json:"roleId"`
}

// Address is a postal address.
type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

// User is the stored representation of an account.
type User struct {
	ID          string      `json:"-"`
	BasicInfo   BasicInfo   `json:"basicInfo"`
	AccountInfo AccountInfo `json:"accountInfo"`
	Address     Address     `json:"address"`
}

// AccessDetails lists the portal and app features a role may use.
type AccessDetails struct {
	Portal []string `json:"portal"`
	App    []string `json:"app"`
}

// Role is the stored representation of a role.
type Role struct {
	ID            string        `json:"-"`
	Type          string        `json:"type"`
	Name          string        `json:"name"`
	Desc          string        `json:"desc"`
	AccessDetails AccessDetails `json:"accessDetails"`
}

// UserProfile is the result of a successful credential check.
type UserProfile struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// UserSummary is an entry of the assignable user list.
type UserSummary struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}
