package dto

// ── organization directory forms ──

// RoleRequest create/update role
type RoleRequest struct {
	Name        string `form:"name"        validate:"required,max=50"`
	Description string `form:"description" validate:"omitempty,max=1000"`
}

// DivSecUnitRequest create/update division/section/unit
type DivSecUnitRequest struct {
	Name        string `form:"name"        validate:"required,max=100"`
	Description string `form:"description" validate:"omitempty,max=1000"`
}

// PositionRequest create/update position
type PositionRequest struct {
	Name         string `form:"name"            validate:"required,max=100"`
	DivSecUnitID string `form:"div_sec_unit_id" validate:"required,uuid"`
}

// EmploymentStatusRequest create/update employment status
type EmploymentStatusRequest struct {
	Name        string `form:"name"        validate:"required,max=50"`
	Description string `form:"description" validate:"omitempty,max=1000"`
}

// OfficialStationRequest create/update official station
type OfficialStationRequest struct {
	Name        string `form:"name"        validate:"required,max=100"`
	Address     string `form:"address"     validate:"omitempty,max=500"`
	Description string `form:"description" validate:"omitempty,max=1000"`
}
