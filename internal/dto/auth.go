package dto

// ── auth ──

// LoginRequest login form
type LoginRequest struct {
	Username   string `form:"username" validate:"required,max=100"`
	Password   string `form:"password" validate:"required"`
	RememberMe bool   `form:"remember"`
}

// RegisterRequest first-account registration form.
// Profile is only validated and persisted for roles that need an employee record.
type RegisterRequest struct {
	RoleID               string `form:"role_id"               validate:"required,uuid"`
	Username             string `form:"username"              validate:"required,max=50"`
	Password             string `form:"password"              validate:"required,min=8"`
	PasswordConfirmation string `form:"password_confirmation" validate:"required,eqfield=Password"`
	Profile              EmployeeInput
}

// SessionResponse issued session
type SessionResponse struct {
	Token     string
	ExpiresAt int64 // unix seconds
	UserID    string
	Username  string
	Role      string
}

// RegisterFormData reference data for the registration page
type RegisterFormData struct {
	Roles              []Option
	Positions          []Option
	DivSecUnits        []Option
	EmploymentStatuses []Option
}
