package dto

// EmployeeInput employee profile fields shared by the employee form and registration
type EmployeeInput struct {
	FirstName          string `form:"first_name"           validate:"required,max=100"`
	MiddleName         string `form:"middle_name"          validate:"omitempty,max=100"`
	LastName           string `form:"last_name"            validate:"required,max=100"`
	Phone              string `form:"phone"                validate:"omitempty,max=20"`
	Address            string `form:"address"              validate:"omitempty,max=500"`
	Birthdate          string `form:"birthdate"            validate:"omitempty,datetime=2006-01-02"`
	Gender             string `form:"gender"               validate:"required,gender"`
	DateHired          string `form:"date_hired"           validate:"omitempty,datetime=2006-01-02"`
	PositionID         string `form:"position_id"          validate:"required,uuid"`
	DivSecUnitID       string `form:"div_sec_unit_id"      validate:"required,uuid"`
	EmploymentStatusID string `form:"employment_status_id" validate:"required,uuid"`
	Salary             string `form:"salary"               validate:"required,salary"`
}

// EmployeeListRequest employee list query
type EmployeeListRequest struct {
	PaginationRequest
	Search   string `form:"search"`
	Role     string `form:"role"`
	Position string `form:"position"`
}

// EmployeeFormData reference data for the employee form
type EmployeeFormData struct {
	Positions          []Option
	DivSecUnits        []Option
	EmploymentStatuses []Option
	Roles              []Option
}

// ImportEmployeeError one rejected spreadsheet row
type ImportEmployeeError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportEmployeeResponse spreadsheet import summary
type ImportEmployeeResponse struct {
	Total   int                   `json:"total"`
	Success int                   `json:"success"`
	Failed  int                   `json:"failed"`
	Errors  []ImportEmployeeError `json:"errors,omitempty"`
}
