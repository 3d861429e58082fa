package model

// User login account (users)
type User struct {
	BaseModel
	Username   string  `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Password   string  `gorm:"type:varchar(255);not null"             json:"-"`
	RoleID     string  `gorm:"type:uuid;not null;index"               json:"role_id"`
	EmployeeID *string `gorm:"type:uuid;uniqueIndex"                  json:"employee_id,omitempty"`

	Role     *Role     `gorm:"foreignKey:RoleID"     json:"role,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }

// RoleName returns the loaded role name or "" when the role was not preloaded
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// HasRole reports whether the user holds any of names
func (u *User) HasRole(names ...string) bool {
	r := u.RoleName()
	for _, n := range names {
		if r == n {
			return true
		}
	}
	return false
}

// IsAdministrator shortcut for HasRole(RoleAdministrator)
func (u *User) IsAdministrator() bool {
	return u.HasRole(RoleAdministrator)
}

// DisplayName employee name when linked, otherwise the username
func (u *User) DisplayName() string {
	if u.Employee != nil {
		return u.Employee.FullName()
	}
	return u.Username
}
