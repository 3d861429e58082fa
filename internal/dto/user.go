package dto

// CreateUserRequest administrator creates an account for an existing employee
type CreateUserRequest struct {
	Username             string `form:"username"              json:"username"              validate:"required,max=100"`
	Password             string `form:"password"              json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation" validate:"required,eqfield=Password"`
	EmployeeID           string `form:"employee_id"           json:"employee_id"           validate:"required,uuid"`
	RoleID               string `form:"role_id"               json:"role_id"               validate:"required,uuid"`
}

// UpdateUserRequest account update. FirstName/LastName rename the linked employee.
type UpdateUserRequest struct {
	Username             string `form:"username"              json:"username"              validate:"required,max=100"`
	Password             string `form:"password"              json:"password"              validate:"omitempty,min=8"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation" validate:"eqfield=Password"`
	RoleID               string `form:"role_id"               json:"role_id"               validate:"required,uuid"`
	FirstName            string `form:"first_name"            json:"first_name"            validate:"omitempty,max=100"`
	LastName             string `form:"last_name"             json:"last_name"             validate:"omitempty,max=100"`
}

// UserListRequest account list query
type UserListRequest struct {
	PaginationRequest
}

// UserResponse account without credentials
type UserResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	RoleID     string  `json:"role_id"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Name       string  `json:"name"`
}

// EmployeeSummary employee fields shown on the account form
type EmployeeSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position,omitempty"`
}

// UserCreateFormData JSON for the create-account form
type UserCreateFormData struct {
	Roles     []Option          `json:"roles"`
	Employees []EmployeeSummary `json:"employees"`
}

// UserEditFormData JSON for the edit-account form
type UserEditFormData struct {
	User     UserResponse     `json:"user"`
	Employee *EmployeeSummary `json:"employee,omitempty"`
	Roles    []Option         `json:"roles"`
}
